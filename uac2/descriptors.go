package uac2

import (
	"encoding/binary"

	"github.com/ardnew/usbdac/audio"
	"github.com/ardnew/usbdac/usb"
)

// Class-specific descriptor sizes (UAC2 Spec 4.7, 4.9, 4.10).
const (
	ACHeaderSize       = 9
	ClockSourceSize    = 8
	InputTerminalSize  = 17
	OutputTerminalSize = 12
	ASGeneralSize      = 16
	FormatTypeISize    = 6
	ClassEndpointSize  = 8
)

// ACHeaderDescriptor is the class-specific AC interface header
// (UAC2 Spec 4.7.2).
type ACHeaderDescriptor struct {
	ADCVersion  uint16 // bcdADC (0x0200)
	Category    uint8  // Audio function category
	TotalLength uint16 // Length of AC header plus all entities
	Controls    uint8  // bmControls (latency control)
}

// MarshalTo serializes the AC header to buf.
// Returns the number of bytes written.
func (d *ACHeaderDescriptor) MarshalTo(buf []byte) int {
	if len(buf) < ACHeaderSize {
		return 0
	}
	buf[0] = ACHeaderSize
	buf[1] = usb.DescriptorTypeCSInterface
	buf[2] = ACSubtypeHeader
	binary.LittleEndian.PutUint16(buf[3:5], d.ADCVersion)
	buf[5] = d.Category
	binary.LittleEndian.PutUint16(buf[6:8], d.TotalLength)
	buf[8] = d.Controls
	return ACHeaderSize
}

// ClockSourceDescriptor describes the function's internal sample clock
// (UAC2 Spec 4.7.2.1).
type ClockSourceDescriptor struct {
	ClockID            uint8 // Entity ID
	Attributes         uint8 // Clock type
	Controls           uint8 // bmControls
	AssociatedTerminal uint8 // bAssocTerminal
	ClockIndex         uint8 // String descriptor index
}

// MarshalTo serializes the clock source descriptor to buf.
// Returns the number of bytes written.
func (d *ClockSourceDescriptor) MarshalTo(buf []byte) int {
	if len(buf) < ClockSourceSize {
		return 0
	}
	buf[0] = ClockSourceSize
	buf[1] = usb.DescriptorTypeCSInterface
	buf[2] = ACSubtypeClockSource
	buf[3] = d.ClockID
	buf[4] = d.Attributes
	buf[5] = d.Controls
	buf[6] = d.AssociatedTerminal
	buf[7] = d.ClockIndex
	return ClockSourceSize
}

// InputTerminalDescriptor describes the USB streaming input terminal
// (UAC2 Spec 4.7.2.4).
type InputTerminalDescriptor struct {
	TerminalID         uint8  // Entity ID
	TerminalType       uint16 // wTerminalType
	AssociatedTerminal uint8  // bAssocTerminal
	ClockSourceID      uint8  // bCSourceID
	NumChannels        uint8  // bNrChannels
	ChannelConfig      uint32 // bmChannelConfig
	ChannelNamesIndex  uint8  // iChannelNames
	Controls           uint16 // bmControls
	TerminalIndex      uint8  // iTerminal
}

// MarshalTo serializes the input terminal descriptor to buf.
// Returns the number of bytes written.
func (d *InputTerminalDescriptor) MarshalTo(buf []byte) int {
	if len(buf) < InputTerminalSize {
		return 0
	}
	buf[0] = InputTerminalSize
	buf[1] = usb.DescriptorTypeCSInterface
	buf[2] = ACSubtypeInputTerminal
	buf[3] = d.TerminalID
	binary.LittleEndian.PutUint16(buf[4:6], d.TerminalType)
	buf[6] = d.AssociatedTerminal
	buf[7] = d.ClockSourceID
	buf[8] = d.NumChannels
	binary.LittleEndian.PutUint32(buf[9:13], d.ChannelConfig)
	buf[13] = d.ChannelNamesIndex
	binary.LittleEndian.PutUint16(buf[14:16], d.Controls)
	buf[16] = d.TerminalIndex
	return InputTerminalSize
}

// OutputTerminalDescriptor describes the speaker output terminal
// (UAC2 Spec 4.7.2.5).
type OutputTerminalDescriptor struct {
	TerminalID         uint8  // Entity ID
	TerminalType       uint16 // wTerminalType
	AssociatedTerminal uint8  // bAssocTerminal
	SourceID           uint8  // bSourceID
	ClockSourceID      uint8  // bCSourceID
	Controls           uint16 // bmControls
	TerminalIndex      uint8  // iTerminal
}

// MarshalTo serializes the output terminal descriptor to buf.
// Returns the number of bytes written.
func (d *OutputTerminalDescriptor) MarshalTo(buf []byte) int {
	if len(buf) < OutputTerminalSize {
		return 0
	}
	buf[0] = OutputTerminalSize
	buf[1] = usb.DescriptorTypeCSInterface
	buf[2] = ACSubtypeOutputTerminal
	buf[3] = d.TerminalID
	binary.LittleEndian.PutUint16(buf[4:6], d.TerminalType)
	buf[6] = d.AssociatedTerminal
	buf[7] = d.SourceID
	buf[8] = d.ClockSourceID
	binary.LittleEndian.PutUint16(buf[9:11], d.Controls)
	buf[11] = d.TerminalIndex
	return OutputTerminalSize
}

// ASGeneralDescriptor is the class-specific AS interface descriptor
// (UAC2 Spec 4.9.2).
type ASGeneralDescriptor struct {
	TerminalLink      uint8  // Connected terminal entity ID
	Controls          uint8  // bmControls
	FormatType        uint8  // bFormatType
	Formats           uint32 // bmFormats
	NumChannels       uint8  // bNrChannels
	ChannelConfig     uint32 // bmChannelConfig
	ChannelNamesIndex uint8  // iChannelNames
}

// MarshalTo serializes the AS general descriptor to buf.
// Returns the number of bytes written.
func (d *ASGeneralDescriptor) MarshalTo(buf []byte) int {
	if len(buf) < ASGeneralSize {
		return 0
	}
	buf[0] = ASGeneralSize
	buf[1] = usb.DescriptorTypeCSInterface
	buf[2] = ASSubtypeGeneral
	buf[3] = d.TerminalLink
	buf[4] = d.Controls
	buf[5] = d.FormatType
	binary.LittleEndian.PutUint32(buf[6:10], d.Formats)
	buf[10] = d.NumChannels
	binary.LittleEndian.PutUint32(buf[11:15], d.ChannelConfig)
	buf[15] = d.ChannelNamesIndex
	return ASGeneralSize
}

// FormatTypeIDescriptor describes the Type I PCM sample layout
// (UAC2 Format Spec 2.3.1.6).
type FormatTypeIDescriptor struct {
	SubslotSize   uint8 // Bytes per subslot
	BitResolution uint8 // Valid bits per subslot
}

// MarshalTo serializes the format type descriptor to buf.
// Returns the number of bytes written.
func (d *FormatTypeIDescriptor) MarshalTo(buf []byte) int {
	if len(buf) < FormatTypeISize {
		return 0
	}
	buf[0] = FormatTypeISize
	buf[1] = usb.DescriptorTypeCSInterface
	buf[2] = ASSubtypeFormatType
	buf[3] = FormatTypeI
	buf[4] = d.SubslotSize
	buf[5] = d.BitResolution
	return FormatTypeISize
}

// ClassEndpointDescriptor is the class-specific AS isochronous data
// endpoint descriptor (UAC2 Spec 4.10.1.2).
type ClassEndpointDescriptor struct {
	Attributes     uint8  // bmAttributes
	Controls       uint8  // bmControls
	LockDelayUnits uint8  // bLockDelayUnits
	LockDelay      uint16 // wLockDelay
}

// MarshalTo serializes the class-specific endpoint descriptor to buf.
// Returns the number of bytes written.
func (d *ClassEndpointDescriptor) MarshalTo(buf []byte) int {
	if len(buf) < ClassEndpointSize {
		return 0
	}
	buf[0] = ClassEndpointSize
	buf[1] = usb.DescriptorTypeCSEndpoint
	buf[2] = EPSubtypeGeneral
	buf[3] = d.Attributes
	buf[4] = d.Controls
	buf[5] = d.LockDelayUnits
	binary.LittleEndian.PutUint16(buf[6:8], d.LockDelay)
	return ClassEndpointSize
}

// maxPacketBytes returns the isochronous data endpoint's wMaxPacketSize
// for the highest supported rate at the given depth: nominal frames per
// millisecond plus one frame of headroom for feedback-driven rate
// increases.
func maxPacketBytes(caps Capabilities, depth audio.BitDepth) uint16 {
	var top uint32
	for _, r := range caps.Rates {
		if r > top {
			top = r
		}
	}
	frames := (top + 999) / 1000
	return uint16((frames + 1) * uint32(depth.Bytes()) * StreamChannels)
}

// BuildConfiguration assembles the complete configuration descriptor
// set into buf: configuration header, interface association, the audio
// control interface with its entities, and the streaming interface with
// one zero-bandwidth alternate plus one alternate per supported depth.
// Returns the total number of bytes written, or 0 if buf is too small.
func BuildConfiguration(buf []byte, caps Capabilities) int {
	n := 0
	put := func(m interface{ MarshalTo([]byte) int }) bool {
		w := m.MarshalTo(buf[n:])
		n += w
		return w != 0
	}

	cfg := usb.ConfigurationDescriptor{
		NumInterfaces:      2,
		ConfigurationValue: 1,
		Attributes:         usb.ConfigAttrBusPowered,
		MaxPower:           50, // 100 mA
	}
	if !put(&cfg) {
		return 0
	}

	iad := usb.InterfaceAssociationDescriptor{
		FirstInterface: InterfaceControl,
		InterfaceCount: 2,
		FunctionClass:  usb.ClassAudio,
		FunctionSubClass: 0x00, // Undefined per UAC2 Spec 4.6
		FunctionProtocol: ProtocolIPVersion02,
	}
	if !put(&iad) {
		return 0
	}

	acIface := usb.InterfaceDescriptor{
		InterfaceNumber:   InterfaceControl,
		InterfaceClass:    usb.ClassAudio,
		InterfaceSubClass: SubclassAudioControl,
		InterfaceProtocol: ProtocolIPVersion02,
	}
	if !put(&acIface) {
		return 0
	}

	acHeader := ACHeaderDescriptor{
		ADCVersion:  0x0200,
		Category:    CategoryDesktopSpeaker,
		TotalLength: ACHeaderSize + ClockSourceSize + InputTerminalSize + OutputTerminalSize,
	}
	clock := ClockSourceDescriptor{
		ClockID:    EntityIDClockSource,
		Attributes: ClockAttrInternalProgrammable,
		Controls:   ClockControlsFreqRWValidR,
	}
	inTerm := InputTerminalDescriptor{
		TerminalID:    EntityIDInputTerminal,
		TerminalType:  TerminalTypeUSBStreaming,
		ClockSourceID: EntityIDClockSource,
		NumChannels:   StreamChannels,
		ChannelConfig: ChannelConfigStereo,
	}
	outTerm := OutputTerminalDescriptor{
		TerminalID:    EntityIDOutputTerminal,
		TerminalType:  TerminalTypeSpeaker,
		SourceID:      EntityIDInputTerminal,
		ClockSourceID: EntityIDClockSource,
	}
	if !put(&acHeader) || !put(&clock) || !put(&inTerm) || !put(&outTerm) {
		return 0
	}

	alt0 := usb.InterfaceDescriptor{
		InterfaceNumber:   InterfaceStreaming,
		AlternateSetting:  AltStreamOff,
		InterfaceClass:    usb.ClassAudio,
		InterfaceSubClass: SubclassAudioStreaming,
		InterfaceProtocol: ProtocolIPVersion02,
	}
	if !put(&alt0) {
		return 0
	}

	alternates := []struct {
		alt   uint8
		depth audio.BitDepth
	}{
		{AltStream16Bit, audio.Depth16},
		{AltStream24Bit, audio.Depth24},
	}
	for _, a := range alternates {
		if !putStreamingAlternate(buf, &n, caps, a.alt, a.depth) {
			return 0
		}
	}

	binary.LittleEndian.PutUint16(buf[2:4], uint16(n))
	return n
}

// putStreamingAlternate appends one operational alternate setting: the
// interface descriptor, AS general, format type, the asynchronous data
// endpoint with its class-specific descriptor, and the feedback
// endpoint.
func putStreamingAlternate(buf []byte, n *int, caps Capabilities, alt uint8, depth audio.BitDepth) bool {
	put := func(m interface{ MarshalTo([]byte) int }) bool {
		w := m.MarshalTo(buf[*n:])
		*n += w
		return w != 0
	}

	iface := usb.InterfaceDescriptor{
		InterfaceNumber:   InterfaceStreaming,
		AlternateSetting:  alt,
		NumEndpoints:      2,
		InterfaceClass:    usb.ClassAudio,
		InterfaceSubClass: SubclassAudioStreaming,
		InterfaceProtocol: ProtocolIPVersion02,
	}
	general := ASGeneralDescriptor{
		TerminalLink:  EntityIDInputTerminal,
		FormatType:    FormatTypeI,
		Formats:       FormatTypeIPCM,
		NumChannels:   StreamChannels,
		ChannelConfig: ChannelConfigStereo,
	}
	format := FormatTypeIDescriptor{
		SubslotSize:   uint8(depth.Bytes()),
		BitResolution: uint8(depth),
	}
	dataEP := usb.EndpointDescriptor{
		EndpointAddress: EndpointAudioOut,
		Attributes:      usb.EndpointTypeIsochronous | usb.IsoSyncAsync | usb.IsoUsageData,
		MaxPacketSize:   maxPacketBytes(caps, depth),
		Interval:        1,
	}
	classEP := ClassEndpointDescriptor{}
	feedbackEP := usb.EndpointDescriptor{
		EndpointAddress: EndpointFeedback,
		Attributes:      usb.EndpointTypeIsochronous | usb.IsoSyncNone | usb.IsoUsageFeedback,
		MaxPacketSize:   4,
		Interval:        1,
	}
	return put(&iface) && put(&general) && put(&format) &&
		put(&dataEP) && put(&classEP) && put(&feedbackEP)
}
