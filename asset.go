package vhall

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"

	"github.com/xxscloud/vhall/client"
	"github.com/xxscloud/vhall/client/spool"
)

// UploadImage stores an image with the remote service and returns its URL.
func (v *VHall) UploadImage(ctx context.Context, a Asset) (string, error) {
	if _, err := v.resolve(epUploadImage); err != nil {
		return "", err
	}

	val, release, err := v.binary(ctx, a)
	if err != nil {
		return "", err
	}
	defer release()

	data, err := v.call(ctx, epUploadImage, client.Params{"image": val}, client.WithFileType(a.Ext))
	if err != nil {
		return "", err
	}

	u := field(data, "file_url", "url", "img_url")
	if u == "" {
		return "", fmt.Errorf("%w: image url is absent", client.ErrMalformedResponse)
	}

	return u, nil
}

// SetCover replaces the cover image of webinar id. The current variant
// uploads the image first and points the webinar at the stored copy.
func (v *VHall) SetCover(ctx context.Context, id string, a Asset) error {
	return v.setCover(ctx, id, a)
}

// SetCoverFromURL fetches an image and sets it as the cover of webinar id.
// The options apply when the content has to be spooled to disk.
func (v *VHall) SetCoverFromURL(ctx context.Context, id, rawURL string, opts ...spool.Option) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parsing image url: %w", err)
	}

	content, err := v.c.Get(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("fetching image: %w", err)
	}
	if content == nil {
		return fmt.Errorf("fetching image: %w", ErrEmptyContent)
	}

	return v.setCover(ctx, id, Asset{Content: content, Ext: path.Ext(u.Path)}, opts...)
}

func (v *VHall) setCover(ctx context.Context, id string, a Asset, opts ...spool.Option) error {
	if v.c.Variant() != client.Legacy {
		imgURL, err := v.UploadImage(ctx, a)
		if err != nil {
			return err
		}

		params := webinarParams(id).Set("img_url", client.String(imgURL))
		_, err = v.call(ctx, epUpdateWebinar, params)
		return err
	}

	val, release, err := v.binary(ctx, a, opts...)
	if err != nil {
		return err
	}
	defer release()

	params := webinarParams(id).Set("image", val)
	_, err = v.call(ctx, epSetCover, params, client.WithFileType(a.Ext))
	return err
}

// SetDocument attaches a document to webinar id.
func (v *VHall) SetDocument(ctx context.Context, id string, a Asset) error {
	val, release, err := v.binary(ctx, a)
	if err != nil {
		return err
	}
	defer release()

	params := webinarParams(id).Set(client.KeyResourceFile, val)
	_, err = v.call(ctx, epSetDocument, params, client.WithFileType(a.Ext))
	return err
}

// binary turns a into a parameter value the variant accepts. The legacy
// variant takes files only, so in-memory content is spooled to a temp
// file that release removes.
func (v *VHall) binary(ctx context.Context, a Asset, opts ...spool.Option) (client.Value, func(), error) {
	noop := func() {}

	switch {
	case a.empty():
		return client.Value{}, nil, ErrEmptyContent
	case a.Path != "":
		return client.File(a.Path), noop, nil
	case v.c.Variant() != client.Legacy:
		return client.Bytes(a.Content), noop, nil
	}

	tmp, err := spool.Temp(ctx, bytes.NewReader(a.Content), int64(len(a.Content)), a.Ext, v.c.Logger(), opts...)
	if err != nil {
		return client.Value{}, nil, fmt.Errorf("spooling asset: %w", err)
	}

	release := func() {
		if err := os.Remove(tmp); err != nil && !errors.Is(err, fs.ErrNotExist) {
			v.c.Logger().Warn("failed to remove spooled asset", "path", tmp, "error", err)
		}
	}

	return client.File(tmp), release, nil
}
