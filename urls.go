package vhall

import (
	"net/url"

	"github.com/xxscloud/vhall/client"
	"github.com/xxscloud/vhall/internal/validate"
)

// WatchURL returns the public watch page of webinar id.
func (v *VHall) WatchURL(id string) string {
	if v.c.Variant() == client.Legacy {
		return legacyWatchURL + url.PathEscape(id)
	}
	return currentWatchURL + url.PathEscape(id)
}

// AuthorizedWatchURL returns a watch link that admits viewer without a
// login. The query is signed with the application credential.
func (v *VHall) AuthorizedWatchURL(id string, viewer Viewer) (string, error) {
	if err := validate.Check(viewer); err != nil {
		return "", err
	}

	params := client.Params{
		"email": client.String(viewer.Email),
		"name":  client.String(viewer.Name),
	}.SetIf(viewer.Avatar != "", "avatar", client.String(viewer.Avatar))

	env := v.c.Seal(params)

	q := make(url.Values, len(env.Wire))
	for _, k := range env.Wire.Keys() {
		q.Set(k, env.Wire[k].Text())
	}

	return v.WatchURL(id) + "?" + q.Encode(), nil
}
