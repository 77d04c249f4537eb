package uac2

import (
	"encoding/binary"
	"testing"

	"github.com/ardnew/usbdac/audio"
	"github.com/ardnew/usbdac/usb"
)

func TestBuildConfiguration(t *testing.T) {
	var buf [512]byte
	n := BuildConfiguration(buf[:], DefaultCapabilities())
	if n == 0 {
		t.Fatal("BuildConfiguration returned 0")
	}

	if buf[0] != usb.ConfigurationDescriptorSize || buf[1] != usb.DescriptorTypeConfiguration {
		t.Fatalf("blob does not start with a configuration descriptor: % X", buf[:2])
	}
	if total := binary.LittleEndian.Uint16(buf[2:4]); int(total) != n {
		t.Errorf("wTotalLength = %d, want %d", total, n)
	}
	if buf[4] != 2 {
		t.Errorf("bNumInterfaces = %d, want 2", buf[4])
	}

	// Walk the descriptor chain and tally what enumeration would see.
	var interfaces, endpoints, classIfaces, classEPs, iads int
	for off := 0; off < n; {
		length := int(buf[off])
		if length == 0 || off+length > n {
			t.Fatalf("descriptor at offset %d has invalid length %d", off, length)
		}
		switch buf[off+1] {
		case usb.DescriptorTypeInterface:
			interfaces++
		case usb.DescriptorTypeEndpoint:
			endpoints++
		case usb.DescriptorTypeCSInterface:
			classIfaces++
		case usb.DescriptorTypeCSEndpoint:
			classEPs++
		case usb.DescriptorTypeInterfaceAssociation:
			iads++
		case usb.DescriptorTypeConfiguration:
		default:
			t.Errorf("unexpected descriptor type %#02x at offset %d", buf[off+1], off)
		}
		off += length
	}

	// AC interface, streaming alt 0, and two operational alternates.
	if interfaces != 4 {
		t.Errorf("interface descriptors = %d, want 4", interfaces)
	}
	// Data plus feedback endpoint per operational alternate.
	if endpoints != 4 {
		t.Errorf("endpoint descriptors = %d, want 4", endpoints)
	}
	// AC header, clock, two terminals, plus general and format type per
	// operational alternate.
	if classIfaces != 8 {
		t.Errorf("class-specific interface descriptors = %d, want 8", classIfaces)
	}
	if classEPs != 2 {
		t.Errorf("class-specific endpoint descriptors = %d, want 2", classEPs)
	}
	if iads != 1 {
		t.Errorf("interface association descriptors = %d, want 1", iads)
	}
}

func TestBuildConfiguration_ACHeaderTotalLength(t *testing.T) {
	var buf [512]byte
	n := BuildConfiguration(buf[:], DefaultCapabilities())

	want := uint16(ACHeaderSize + ClockSourceSize + InputTerminalSize + OutputTerminalSize)
	for off := 0; off < n; off += int(buf[off]) {
		if buf[off+1] == usb.DescriptorTypeCSInterface && buf[off+2] == ACSubtypeHeader {
			if got := binary.LittleEndian.Uint16(buf[off+6 : off+8]); got != want {
				t.Errorf("AC header wTotalLength = %d, want %d", got, want)
			}
			return
		}
	}
	t.Fatal("AC header descriptor not found")
}

func TestBuildConfiguration_EndpointAttributes(t *testing.T) {
	var buf [512]byte
	n := BuildConfiguration(buf[:], DefaultCapabilities())

	var ep usb.EndpointDescriptor
	seenData, seenFeedback := false, false
	for off := 0; off < n; off += int(buf[off]) {
		if buf[off+1] != usb.DescriptorTypeEndpoint {
			continue
		}
		if err := usb.ParseEndpointDescriptor(buf[off:], &ep); err != nil {
			t.Fatalf("ParseEndpointDescriptor error: %v", err)
		}
		switch ep.EndpointAddress {
		case EndpointAudioOut:
			seenData = true
			if ep.IsIn() || !ep.IsIsochronous() {
				t.Errorf("data endpoint attributes = %#02x, want iso OUT", ep.Attributes)
			}
			if ep.IsoSyncType() != usb.IsoSyncAsync {
				t.Errorf("data endpoint sync = %#02x, want asynchronous", ep.IsoSyncType())
			}
		case EndpointFeedback:
			seenFeedback = true
			if !ep.IsIn() || !ep.IsIsochronous() {
				t.Errorf("feedback endpoint attributes = %#02x, want iso IN", ep.Attributes)
			}
			if ep.IsoUsageType() != usb.IsoUsageFeedback {
				t.Errorf("feedback endpoint usage = %#02x, want feedback", ep.IsoUsageType())
			}
			if ep.MaxPacketSize != 4 {
				t.Errorf("feedback wMaxPacketSize = %d, want 4", ep.MaxPacketSize)
			}
		default:
			t.Errorf("unexpected endpoint address %#02x", ep.EndpointAddress)
		}
	}
	if !seenData || !seenFeedback {
		t.Errorf("endpoints seen: data=%v feedback=%v, want both", seenData, seenFeedback)
	}
}

func TestBuildConfiguration_BufferTooSmall(t *testing.T) {
	var buf [32]byte
	if n := BuildConfiguration(buf[:], DefaultCapabilities()); n != 0 {
		t.Errorf("BuildConfiguration into short buffer = %d, want 0", n)
	}
}

func TestMaxPacketBytes(t *testing.T) {
	caps := DefaultCapabilities() // top rate 96000: 96+1 frames per ms
	if got := maxPacketBytes(caps, audio.Depth24); got != 97*3*2 {
		t.Errorf("maxPacketBytes(24-bit) = %d, want %d", got, 97*3*2)
	}
	if got := maxPacketBytes(caps, audio.Depth16); got != 97*2*2 {
		t.Errorf("maxPacketBytes(16-bit) = %d, want %d", got, 97*2*2)
	}
}

func TestClassDescriptors_BufferTooSmall(t *testing.T) {
	var buf [4]byte
	if n := (&ACHeaderDescriptor{}).MarshalTo(buf[:]); n != 0 {
		t.Errorf("ACHeaderDescriptor.MarshalTo = %d, want 0", n)
	}
	if n := (&InputTerminalDescriptor{}).MarshalTo(buf[:]); n != 0 {
		t.Errorf("InputTerminalDescriptor.MarshalTo = %d, want 0", n)
	}
	if n := (&ASGeneralDescriptor{}).MarshalTo(buf[:]); n != 0 {
		t.Errorf("ASGeneralDescriptor.MarshalTo = %d, want 0", n)
	}
}
