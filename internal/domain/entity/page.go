package entity

import "encoding/base64"

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// PageSnapshot is what one poll of the login loop sees.
type PageSnapshot struct {
	URL        string
	Title      string
	HTML       string
	Screenshot *Screenshot
}

// MediaType defaults to PNG when Format is empty.
func (s *Screenshot) MediaType() string {
	switch s.Format {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "webp":
		return "image/webp"
	default:
		return "image/png"
	}
}

func (s *Screenshot) Base64() string {
	return base64.StdEncoding.EncodeToString(s.Data)
}

func (s *Screenshot) DataURL() string {
	return "data:" + s.MediaType() + ";base64," + s.Base64()
}
