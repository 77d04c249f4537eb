package uac2

// Audio interface subclasses (UAC2 Spec A.5).
const (
	SubclassAudioControl   = 0x01
	SubclassAudioStreaming = 0x02
)

// Audio interface protocol (UAC2 Spec A.6).
const ProtocolIPVersion02 = 0x20

// Audio function category (UAC2 Spec A.7).
const CategoryDesktopSpeaker = 0x01

// Class-specific AC interface descriptor subtypes (UAC2 Spec A.9).
const (
	ACSubtypeHeader         = 0x01
	ACSubtypeInputTerminal  = 0x02
	ACSubtypeOutputTerminal = 0x03
	ACSubtypeClockSource    = 0x0A
)

// Class-specific AS interface descriptor subtypes (UAC2 Spec A.10).
const (
	ASSubtypeGeneral    = 0x01
	ASSubtypeFormatType = 0x02
)

// Class-specific endpoint descriptor subtype (UAC2 Spec A.13).
const EPSubtypeGeneral = 0x01

// Class-specific request codes (UAC2 Spec A.14).
const (
	RequestCur   = 0x01
	RequestRange = 0x02
)

// Clock source control selectors (UAC2 Spec A.17.1).
const (
	ClockSampleFreqControl = 0x01
	ClockValidControl      = 0x02
)

// Format type codes (UAC2 Format Spec A.1) and Type I format bits
// (A.2.1).
const (
	FormatTypeI    = 0x01
	FormatTypeIPCM = 0x00000001
)

// Terminal types (USB Audio Terminal Types Spec).
const (
	TerminalTypeUSBStreaming = 0x0101
	TerminalTypeSpeaker      = 0x0301
)

// Entity IDs within the audio function. IDs are arbitrary but must be
// unique and nonzero; they appear in descriptors and in the wIndex high
// byte of control requests.
const (
	EntityIDInputTerminal  = 0x01
	EntityIDOutputTerminal = 0x03
	EntityIDClockSource    = 0x04
)

// Interface numbers within the configuration.
const (
	InterfaceControl   = 0x00
	InterfaceStreaming = 0x01
)

// Alternate settings of the streaming interface. Alternate 0 carries no
// endpoints and stops the stream; the others select the wire depth.
const (
	AltStreamOff   = 0x00
	AltStream16Bit = 0x01
	AltStream24Bit = 0x02
)

// Endpoint addresses.
const (
	EndpointAudioOut = 0x01 // Isochronous OUT, audio data
	EndpointFeedback = 0x81 // Isochronous IN, explicit rate feedback
)

// Clock source attributes and controls: an internal programmable clock
// whose sample frequency is host-writable and whose validity is
// host-readable (UAC2 Spec 4.7.2.1).
const (
	ClockAttrInternalProgrammable = 0x03
	ClockControlsFreqRWValidR     = 0x07
)

// Channel config: front left and front right (UAC2 Spec 4.1).
const ChannelConfigStereo = 0x00000003

// StreamChannels is the fixed channel count of the function.
const StreamChannels = 2
