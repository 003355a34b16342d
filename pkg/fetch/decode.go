package fetch

import (
	"bufio"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
)

// countingReader counts bytes read through it.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// probe reads the image header for its dimensions, then drains the payload
// so the size limit applies to the whole image, as a browser load would.
func probe(r io.Reader, maxBytes int64) (image.Config, string, int64, error) {
	limit := maxBytes
	if limit <= 0 {
		limit = 1<<63 - 1
	} else {
		limit++ // one extra byte detects overflow
	}
	counter := &countingReader{r: io.LimitReader(r, limit)}
	br := bufio.NewReader(counter)

	cfg, format, err := image.DecodeConfig(br)
	if err != nil {
		if maxBytes > 0 && counter.n > maxBytes {
			return image.Config{}, "", counter.n, ErrTooLarge
		}
		return image.Config{}, "", counter.n, fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	if _, err := io.Copy(io.Discard, br); err != nil {
		return image.Config{}, "", counter.n, err
	}
	if maxBytes > 0 && counter.n > maxBytes {
		return image.Config{}, "", counter.n, ErrTooLarge
	}
	return cfg, format, counter.n, nil
}
