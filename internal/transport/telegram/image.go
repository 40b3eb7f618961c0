package telegram

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"net/http"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/go-telegram/bot"
	"github.com/samber/oops"
	"golang.org/x/image/draw"
)

const (
	// maxImageBytes matches the lookup account's upload limit.
	maxImageBytes = 5 * 1024 * 1024
	// maxImageSide clamps either dimension before re-upload.
	maxImageSide = 4096

	jpegQuality = 95
)

// ImageFetcher downloads a post's photo via the bot API and normalizes
// it to a JPEG the lookup account accepts.
type ImageFetcher struct {
	bot    *bot.Bot
	client *http.Client
}

func NewImageFetcher() *ImageFetcher {
	return &ImageFetcher{client: http.DefaultClient}
}

func (f *ImageFetcher) SetBot(b *bot.Bot) {
	f.bot = b
}

// Fetch downloads the photo behind fileID and returns JPEG bytes,
// flattened and clamped to the lookup account's limits.
func (f *ImageFetcher) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	file, err := f.bot.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, oops.With("file_id", fileID, "context", "failed to resolve file").Wrap(err)
	}
	if file.FileSize > maxImageBytes {
		return nil, oops.With("file_id", fileID, "file_size", file.FileSize).Errorf("image exceeds %d bytes", maxImageBytes)
	}

	raw, err := f.download(ctx, f.bot.FileDownloadLink(file))
	if err != nil {
		return nil, oops.With("file_id", fileID, "context", "failed to download file").Wrap(err)
	}

	return normalize(raw)
}

func (f *ImageFetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, oops.With("status", resp.StatusCode).Errorf("unexpected download status")
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
}

// normalize decodes, flattens transparency onto white, clamps oversized
// dimensions and re-encodes as JPEG.
func normalize(raw []byte) ([]byte, error) {
	if len(raw) > maxImageBytes {
		return nil, oops.Errorf("image exceeds %d bytes", maxImageBytes)
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, oops.With("context", "failed to decode image").Wrap(err)
	}

	bounds := fitBounds(src.Bounds())
	flat := image.NewRGBA(bounds)
	draw.Draw(flat, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(flat, bounds, src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, oops.With("context", "failed to encode image").Wrap(err)
	}
	return buf.Bytes(), nil
}

// fitBounds scales the rectangle down proportionally so neither side
// exceeds maxImageSide.
func fitBounds(b image.Rectangle) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	longest := max(w, h)
	if longest <= maxImageSide {
		return image.Rect(0, 0, w, h)
	}

	return image.Rect(0, 0, max(1, w*maxImageSide/longest), max(1, h*maxImageSide/longest))
}
