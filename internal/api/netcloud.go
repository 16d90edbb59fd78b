package api

import (
	"context"

	"github.com/youzill/bvtc-desktop/internal/model"
)

// CheckLogin reports whether the backend holds a valid NetEase session for
// this client
func (c *Client) CheckLogin(ctx context.Context) (bool, error) {
	resp, err := c.rc.R().
		SetContext(ctx).
		Get("/netcloud/login/check")
	if err != nil {
		return false, classifyTransport(err)
	}

	var loggedIn bool
	if err := decode(resp, &loggedIn); err != nil {
		return false, err
	}
	return loggedIn, nil
}

// Playlists fetches the playlists owned by the logged-in user
func (c *Client) Playlists(ctx context.Context) ([]model.Playlist, error) {
	resp, err := c.rc.R().
		SetContext(ctx).
		Get("/netcloud/playlist")
	if err != nil {
		return nil, classifyTransport(err)
	}

	var playlists []model.Playlist
	if err := decode(resp, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// SendCaptcha asks the backend to text a verification code to the phone
func (c *Client) SendCaptcha(ctx context.Context, phone string) error {
	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParam("phone", phone).
		Get("/netcloud/login")
	if err != nil {
		return classifyTransport(err)
	}
	return decode(resp, nil)
}

// VerifyCaptcha exchanges phone + code for a backend session
func (c *Client) VerifyCaptcha(ctx context.Context, phone, captcha string) error {
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(map[string]string{"phone": phone, "captcha": captcha}).
		Post("/netcloud/login/verify")
	if err != nil {
		return classifyTransport(err)
	}
	return decode(resp, nil)
}

// Logout drops the backend session
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.rc.R().
		SetContext(ctx).
		Post("/netcloud/logout")
	if err != nil {
		return classifyTransport(err)
	}
	return decode(resp, nil)
}

// UserAvatar fetches the logged-in user's avatar as raw image bytes
func (c *Client) UserAvatar(ctx context.Context) ([]byte, error) {
	resp, err := c.rc.R().
		SetContext(ctx).
		Get("/netcloud/useravatar")
	if err != nil {
		return nil, classifyTransport(err)
	}
	if resp.IsError() {
		return nil, &APIError{Code: resp.StatusCode(), Msg: "avatar not available"}
	}
	return resp.Body(), nil
}
