package vhall

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/xxscloud/vhall/client"
	"github.com/xxscloud/vhall/internal/validate"
)

// RegisterUser creates an account and returns the remote user id.
func (v *VHall) RegisterUser(ctx context.Context, u User) (string, error) {
	if err := validate.Check(u); err != nil {
		return "", err
	}

	data, err := v.call(ctx, epRegisterUser, u.params(v.c.Variant()))
	if err != nil {
		return "", err
	}

	id := field(data, "user_id", "third_user_id", "id")
	if id == "" {
		id = scalar(data)
	}
	if id == "" {
		return "", fmt.Errorf("%w: user id is absent", client.ErrMalformedResponse)
	}

	return id, nil
}

// AddRole registers a fresh account for role and grants it access to
// webinar id.
func (v *VHall) AddRole(ctx context.Context, id string, role Role) error {
	if err := validate.Check(role); err != nil {
		return err
	}
	if _, err := v.resolve(epAddRole); err != nil {
		return err
	}

	userID, err := v.RegisterUser(ctx, User{
		ID:       "v" + id + uuid.NewString()[:4],
		Password: role.Password,
		Nickname: role.Nickname,
		Avatar:   role.Avatar,
	})
	if err != nil {
		return fmt.Errorf("registering role account: %w", err)
	}

	params := webinarParams(id)
	if v.c.Variant() == client.Legacy {
		params.Set("role_name", client.Int(int64(role.Type))).Set("users", client.String(userID))
	} else {
		params.Set("type", client.Int(int64(role.Type))).Set("user_id", client.String(userID))
	}

	_, err = v.call(ctx, epAddRole, params)
	return err
}

// RoleInfo returns the role accounts of webinar id.
func (v *VHall) RoleInfo(ctx context.Context, id string) (map[string]any, error) {
	data, err := v.call(ctx, epRoleInfo, webinarParams(id))
	if err != nil {
		return nil, err
	}

	return client.DataAs[map[string]any](data)
}

// SetRolePassword changes the password of role t on webinar id.
func (v *VHall) SetRolePassword(ctx context.Context, id string, t RoleType, password string) error {
	if err := validate.Check(Role{Type: t, Password: password}); err != nil {
		return err
	}

	params := webinarParams(id).
		Set("type", client.Int(int64(t))).
		Set("password", client.String(password))

	_, err := v.call(ctx, epRolePassword, params)
	return err
}

// SetRoleStatus enables or disables role t on webinar id.
func (v *VHall) SetRoleStatus(ctx context.Context, id string, t RoleType, enabled bool) error {
	if err := validate.Check(roleStatus{Type: t}); err != nil {
		return err
	}

	params := webinarParams(id).
		Set("type", client.Int(int64(t))).
		Set("status", client.Bool(enabled))

	_, err := v.call(ctx, epRoleStatus, params)
	return err
}
