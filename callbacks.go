package vhall

import (
	"context"
	"strings"

	"github.com/xxscloud/vhall/client"
	"github.com/xxscloud/vhall/internal/validate"
)

// SetCallback registers the URL the remote service posts events to.
func (v *VHall) SetCallback(ctx context.Context, cfg CallbackConfig) error {
	if err := validate.Check(cfg); err != nil {
		return err
	}

	params := client.Params{"callback_url": client.String(cfg.URL)}.
		SetIf(len(cfg.Events) > 0, "callback_event", client.String(strings.Join(cfg.Events, ",")))

	_, err := v.call(ctx, epSetCallback, params)
	return err
}

// CallbackInfo returns the current callback registration.
func (v *VHall) CallbackInfo(ctx context.Context) (CallbackConfig, error) {
	data, err := v.call(ctx, epCallbackInfo, client.Params{})
	if err != nil {
		return CallbackConfig{}, err
	}

	cfg := CallbackConfig{URL: field(data, "callback_url", "url")}
	for ev := range strings.SplitSeq(field(data, "callback_event", "event"), ",") {
		if ev = strings.TrimSpace(ev); ev != "" {
			cfg.Events = append(cfg.Events, ev)
		}
	}

	return cfg, nil
}
