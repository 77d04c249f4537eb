package usb

import (
	"errors"
	"testing"

	"github.com/ardnew/usbdac/pkg"
)

func TestParseSetupPacket(t *testing.T) {
	data := []byte{0x21, 0x01, 0x00, 0x01, 0x02, 0x0A, 0x04, 0x00}

	var setup SetupPacket
	if err := ParseSetupPacket(data, &setup); err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if setup.RequestType != 0x21 {
		t.Errorf("RequestType = 0x%02X, want 0x21", setup.RequestType)
	}
	if setup.Request != 0x01 {
		t.Errorf("Request = 0x%02X, want 0x01", setup.Request)
	}
	if setup.Value != 0x0100 {
		t.Errorf("Value = 0x%04X, want 0x0100", setup.Value)
	}
	if setup.Index != 0x0A02 {
		t.Errorf("Index = 0x%04X, want 0x0A02", setup.Index)
	}
	if setup.Length != 4 {
		t.Errorf("Length = %d, want 4", setup.Length)
	}
}

func TestParseSetupPacket_TooShort(t *testing.T) {
	var setup SetupPacket
	err := ParseSetupPacket(make([]byte, 7), &setup)
	if !errors.Is(err, pkg.ErrSetupPacketTooShort) {
		t.Errorf("expected ErrSetupPacketTooShort, got %v", err)
	}
}

func TestSetupPacket_RoundTrip(t *testing.T) {
	original := SetupPacket{
		RequestType: RequestDirectionDeviceToHost | RequestTypeClass | RequestRecipientInterface,
		Request:     0x01,
		Value:       0x0100,
		Index:       0x0A00,
		Length:      4,
	}

	var buf [SetupPacketSize]byte
	if n := original.MarshalTo(buf[:]); n != SetupPacketSize {
		t.Fatalf("MarshalTo = %d, want %d", n, SetupPacketSize)
	}

	var parsed SetupPacket
	if err := ParseSetupPacket(buf[:], &parsed); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if parsed != original {
		t.Errorf("round trip mismatch: got %+v, want %+v", parsed, original)
	}
}

func TestSetupPacket_Classification(t *testing.T) {
	tests := []struct {
		name        string
		requestType uint8
		isClass     bool
		isStandard  bool
		isD2H       bool
		isIface     bool
	}{
		{"standard device OUT", 0x00, false, true, false, false},
		{"standard interface OUT", 0x01, false, true, false, true},
		{"class interface IN", 0xA1, true, false, true, true},
		{"class interface OUT", 0x21, true, false, false, true},
		{"class endpoint IN", 0xA2, true, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := SetupPacket{RequestType: tt.requestType}
			if s.IsClass() != tt.isClass {
				t.Errorf("IsClass() = %v, want %v", s.IsClass(), tt.isClass)
			}
			if s.IsStandard() != tt.isStandard {
				t.Errorf("IsStandard() = %v, want %v", s.IsStandard(), tt.isStandard)
			}
			if s.IsDeviceToHost() != tt.isD2H {
				t.Errorf("IsDeviceToHost() = %v, want %v", s.IsDeviceToHost(), tt.isD2H)
			}
			if s.IsInterfaceRecipient() != tt.isIface {
				t.Errorf("IsInterfaceRecipient() = %v, want %v", s.IsInterfaceRecipient(), tt.isIface)
			}
		})
	}
}

func TestSetupPacket_UAC2Fields(t *testing.T) {
	// CUR request for sample rate: selector 0x01, channel 0,
	// entity 0x04 (clock source), interface 0
	var setup SetupPacket
	GetClassInterfaceSetup(&setup, 0x01, true, 0x01, 0, 0x04, 0, 4)

	if setup.ControlSelector() != 0x01 {
		t.Errorf("ControlSelector() = 0x%02X, want 0x01", setup.ControlSelector())
	}
	if setup.ChannelNumber() != 0 {
		t.Errorf("ChannelNumber() = %d, want 0", setup.ChannelNumber())
	}
	if setup.EntityID() != 0x04 {
		t.Errorf("EntityID() = 0x%02X, want 0x04", setup.EntityID())
	}
	if setup.InterfaceNumber() != 0 {
		t.Errorf("InterfaceNumber() = %d, want 0", setup.InterfaceNumber())
	}
	if !setup.IsClass() || !setup.IsInterfaceRecipient() || !setup.IsDeviceToHost() {
		t.Errorf("request type misclassified: 0x%02X", setup.RequestType)
	}
}

func TestGetSetInterfaceSetup(t *testing.T) {
	var setup SetupPacket
	GetSetInterfaceSetup(&setup, 1, 1)

	if !setup.IsStandard() || !setup.IsInterfaceRecipient() || !setup.IsHostToDevice() {
		t.Errorf("request type misclassified: 0x%02X", setup.RequestType)
	}
	if setup.Request != RequestSetInterface {
		t.Errorf("Request = 0x%02X, want 0x%02X", setup.Request, RequestSetInterface)
	}
	if setup.InterfaceNumber() != 1 {
		t.Errorf("InterfaceNumber() = %d, want 1", setup.InterfaceNumber())
	}
	if setup.AlternateSetting() != 1 {
		t.Errorf("AlternateSetting() = %d, want 1", setup.AlternateSetting())
	}
}
