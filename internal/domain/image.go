package domain

// GeneratedImage is one encoded image returned by the synthesis pipeline.
type GeneratedImage struct {
	Data     []byte
	MIMEType string
}
