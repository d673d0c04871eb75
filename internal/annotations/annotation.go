package annotations

// Annotation is a textual marker tied to one frame and event of a channel.
type Annotation struct {
	EventIndex  int64
	FrameIndex  int64
	Text        string
	ChannelName string
	ChannelCRC  uint32
}

// NewAnnotation builds an annotation and derives the channel CRC from the name.
func NewAnnotation(eventIndex, frameIndex int64, text, channel string) Annotation {
	return Annotation{
		EventIndex:  eventIndex,
		FrameIndex:  frameIndex,
		Text:        text,
		ChannelName: channel,
		ChannelCRC:  ChannelCRC(channel),
	}
}
