package vhall

import (
	"context"
	"fmt"
	"strconv"

	"github.com/xxscloud/vhall/client"
	"github.com/xxscloud/vhall/internal/validate"
)

// ApplyList returns the registration form entries of webinar id.
func (v *VHall) ApplyList(ctx context.Context, id string, page Page) (map[string]any, error) {
	if err := validate.Check(page); err != nil {
		return nil, err
	}

	data, err := v.call(ctx, epApplyList, page.set(webinarParams(id)))
	if err != nil {
		return nil, err
	}

	return client.DataAs[map[string]any](data)
}

// TrackList returns the viewing records of webinar id.
func (v *VHall) TrackList(ctx context.Context, id string, q TrackQuery) (map[string]any, error) {
	if err := validate.Check(q); err != nil {
		return nil, err
	}

	params := q.Page.set(webinarParams(id)).
		Set("type", client.Int(int64(q.Type))).
		Set("range", client.Int(int64(q.Range)))

	data, err := v.call(ctx, epTrackList, params)
	if err != nil {
		return nil, err
	}

	return client.DataAs[map[string]any](data)
}

// OnlineCount returns the number of viewers currently watching webinar id.
func (v *VHall) OnlineCount(ctx context.Context, id string) (int, error) {
	data, err := v.call(ctx, epOnlineCount, webinarParams(id))
	if err != nil {
		return 0, err
	}

	s := field(data, "count", "online", "num")
	if s == "" {
		s = scalar(data)
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: online count %q", client.ErrMalformedResponse, s)
	}

	return n, nil
}
