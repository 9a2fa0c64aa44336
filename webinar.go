package vhall

import (
	"context"
	"fmt"

	"github.com/xxscloud/vhall/client"
	"github.com/xxscloud/vhall/internal/validate"
)

// CreateWebinar creates a webinar and returns its id and watch URL.
func (v *VHall) CreateWebinar(ctx context.Context, live Live) (Webinar, error) {
	if err := live.Validate(); err != nil {
		return Webinar{}, err
	}

	data, err := v.call(ctx, epCreateWebinar, live.params(v.c.Variant()))
	if err != nil {
		return Webinar{}, err
	}

	// The legacy variant answers with the bare id.
	id := field(data, "webinar_id", "id")
	if id == "" {
		id = scalar(data)
	}
	if id == "" {
		return Webinar{}, fmt.Errorf("%w: webinar id is absent", client.ErrMalformedResponse)
	}

	return Webinar{ID: id, URL: v.WatchURL(id)}, nil
}

// UpdateWebinar replaces the settings of webinar id with live.
func (v *VHall) UpdateWebinar(ctx context.Context, id string, live Live) error {
	if err := live.Validate(); err != nil {
		return err
	}

	params := live.params(v.c.Variant()).Set("webinar_id", client.String(id))
	_, err := v.call(ctx, epUpdateWebinar, params)
	return err
}

// DeleteWebinar removes webinar id.
func (v *VHall) DeleteWebinar(ctx context.Context, id string) error {
	_, err := v.call(ctx, epDeleteWebinar, webinarParams(id))
	return err
}

// WebinarInfo returns the remote description of webinar id.
func (v *VHall) WebinarInfo(ctx context.Context, id string) (map[string]any, error) {
	data, err := v.call(ctx, epWebinarInfo, webinarParams(id))
	if err != nil {
		return nil, err
	}

	return client.DataAs[map[string]any](data)
}

// ListWebinars returns one page of the application's webinars.
func (v *VHall) ListWebinars(ctx context.Context, page Page) (Listing, error) {
	if err := validate.Check(page); err != nil {
		return Listing{}, err
	}

	data, err := v.call(ctx, epListWebinars, page.set(client.Params{}))
	if err != nil {
		return Listing{}, err
	}

	return client.DataAs[Listing](data)
}

// StartWebinar switches webinar id to live.
func (v *VHall) StartWebinar(ctx context.Context, id string) error {
	_, err := v.call(ctx, epStartWebinar, webinarParams(id))
	return err
}

// StopWebinar ends the live broadcast of webinar id.
func (v *VHall) StopWebinar(ctx context.Context, id string) error {
	_, err := v.call(ctx, epStopWebinar, webinarParams(id))
	return err
}

// PushAddress returns the RTMP address to stream webinar id to.
func (v *VHall) PushAddress(ctx context.Context, id string) (string, error) {
	data, err := v.call(ctx, epPushAddress, webinarParams(id))
	if err != nil {
		return "", err
	}

	addr := field(data, "RTMP_URL", "push_address", "rtmp_url")
	if addr == "" {
		return "", fmt.Errorf("%w: push address is absent", client.ErrMalformedResponse)
	}

	return addr, nil
}

func webinarParams(id string) client.Params {
	return client.Params{"webinar_id": client.String(id)}
}
