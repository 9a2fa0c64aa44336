package vhall

import (
	"encoding/json"
	"time"

	"github.com/xxscloud/vhall/client"
	"github.com/xxscloud/vhall/internal/validate"
)

// legacyPlayer and legacyNewVersion select the player and room generation
// the legacy create endpoint expects.
const (
	legacyPlayer     = 2
	legacyNewVersion = 1
)

// startTimeLayout is the start_time format of the current variant.
const startTimeLayout = "2006-01-02 15:04:05"

// Live describes a webinar to create or update. Pointer fields are sent
// only when set.
type Live struct {
	Subject      string    `json:"subject" validate:"required,max=100"`
	Introduction string    `json:"introduction"`
	StartTime    time.Time `json:"start_time" validate:"required"`
	// WebinarType is 1 audio, 2 video or 3 interactive. Zero means 3.
	WebinarType int    `json:"webinar_type" validate:"omitempty,oneof=1 2 3"`
	Topics      string `json:"topics"`
	Interact    bool   `json:"is_interact"`
	ImgURL      string `json:"img_url" validate:"omitempty,url"`

	Private         *bool `json:"is_private"`
	Open            *bool `json:"is_open"`
	HideWatch       *bool `json:"hide_watch"`
	AdiWatchDoc     *bool `json:"is_adi_watch_doc"`
	HideAppointment *bool `json:"hide_appointment"`
	HidePV          *bool `json:"hide_pv"`
	Capacity        *bool `json:"is_capacity"`

	CurrentNum *int `json:"webinar_curr_num" validate:"omitempty,gte=0"`
	Num        *int `json:"num" validate:"omitempty,gte=0"`
	ShowType   *int `json:"webinar_show_type"`
	Verify     *int `json:"verify"`

	// Fee is a decimal amount such as "9.90".
	Fee      string `json:"fee" validate:"omitempty,numeric"`
	Password string `json:"password"`
}

// Validate checks the declared constraints of l.
func (l Live) Validate() error {
	return validate.Check(l)
}

func (l Live) params(variant client.Variant) client.Params {
	webinarType := l.WebinarType
	if webinarType == 0 {
		webinarType = 3
	}

	p := client.Params{
		"subject":      client.String(l.Subject),
		"webinar_type": client.Int(int64(webinarType)),
	}

	if variant == client.Legacy {
		p.Set("start_time", client.Int(l.StartTime.Unix())).
			Set("introduction", client.String(l.Introduction)).
			Set("topics", client.String(l.Topics)).
			Set("is_interact", client.Bool(l.Interact)).
			Set("player", client.Int(legacyPlayer)).
			Set("is_new_version", client.Int(legacyNewVersion))
	} else {
		p.Set("start_time", client.String(l.StartTime.Format(startTimeLayout))).
			SetIf(l.Introduction != "", "introduction", client.String(l.Introduction)).
			SetIf(l.Topics != "", "topics", client.String(l.Topics))
	}

	p.SetIf(l.ImgURL != "", "img_url", client.String(l.ImgURL)).
		SetIf(l.Fee != "", "fee", client.String(l.Fee)).
		SetIf(l.Password != "", "password", client.String(l.Password))

	flags := map[string]*bool{
		"is_private":       l.Private,
		"is_open":          l.Open,
		"hide_watch":       l.HideWatch,
		"is_adi_watch_doc": l.AdiWatchDoc,
		"hide_appointment": l.HideAppointment,
		"hide_pv":          l.HidePV,
		"is_capacity":      l.Capacity,
	}
	for k, b := range flags {
		if b != nil {
			p[k] = client.Bool(*b)
		}
	}

	nums := map[string]*int{
		"webinar_curr_num":  l.CurrentNum,
		"num":               l.Num,
		"webinar_show_type": l.ShowType,
		"verify":            l.Verify,
	}
	for k, n := range nums {
		if n != nil {
			p[k] = client.Int(int64(*n))
		}
	}

	return p
}

// Webinar identifies a created webinar.
type Webinar struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Page selects a window of a listing. A zero Limit means 1000.
type Page struct {
	Pos   int `json:"pos" validate:"gte=0"`
	Limit int `json:"limit" validate:"gte=0,lte=1000"`
}

func (p Page) set(params client.Params) client.Params {
	limit := p.Limit
	if limit == 0 {
		limit = 1000
	}

	return params.Set("pos", client.Int(int64(p.Pos))).Set("limit", client.Int(int64(limit)))
}

// Listing is one page of webinars.
type Listing struct {
	Total json.Number      `json:"total"`
	List  []map[string]any `json:"list"`
}

// User is an account registered with the remote service.
type User struct {
	ID       string `json:"third_user_id" validate:"required"`
	Password string `json:"pass" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Nickname string `json:"name"`
	Avatar   string `json:"head" validate:"omitempty,url"`
}

func (u User) params(variant client.Variant) client.Params {
	p := client.Params{"third_user_id": client.String(u.ID)}

	if variant == client.Legacy {
		return p.Set("pass", client.String(u.Password)).
			Set("email", client.String(u.Email)).
			SetIf(u.Nickname != "", "name", client.String(u.Nickname)).
			SetIf(u.Avatar != "", "head", client.String(u.Avatar))
	}

	return p.Set("password", client.String(u.Password)).
		SetIf(u.Email != "", "email", client.String(u.Email)).
		SetIf(u.Nickname != "", "nick_name", client.String(u.Nickname)).
		SetIf(u.Avatar != "", "avatar", client.String(u.Avatar))
}

// RoleType is the permission a guest account is granted on a webinar.
type RoleType int

// Role types understood by the remote service.
const (
	RoleAssistant RoleType = 1
	RoleGuest     RoleType = 2
)

// Role describes a helper account to attach to a webinar.
type Role struct {
	Type     RoleType `json:"type" validate:"oneof=1 2"`
	Password string   `json:"password" validate:"required"`
	Nickname string   `json:"nickname"`
	Avatar   string   `json:"avatar" validate:"omitempty,url"`
}

type roleStatus struct {
	Type RoleType `json:"type" validate:"oneof=1 2"`
}

// Asset is binary content to upload, either in memory or on disk. Path
// wins when both are set.
type Asset struct {
	Content []byte
	Path    string
	// Ext names in-memory content, e.g. "jpg".
	Ext string
}

func (a Asset) empty() bool {
	return a.Path == "" && len(a.Content) == 0
}

// CallbackConfig is the event callback registration of the application.
type CallbackConfig struct {
	URL    string   `json:"callback_url" validate:"required,url"`
	Events []string `json:"callback_event" validate:"dive,required"`
}

// TrackQuery selects viewing records of a webinar.
type TrackQuery struct {
	// Type is 1 for live and 2 for replay viewing.
	Type  int `json:"type" validate:"oneof=1 2"`
	Range int `json:"range" validate:"gte=0"`
	Page
}

// Viewer identifies an audience member for an authorized watch link.
type Viewer struct {
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name" validate:"required"`
	Avatar string `json:"avatar" validate:"omitempty,url"`
}
