// Package vhall wraps the vhall live streaming API: webinars, assets,
// roles, callback configuration and reports.
//
// Every method builds a parameter set and hands it to a [client.Client],
// which signs it with the application credential and posts it as
// multipart/form-data. A failed remote call surfaces as a
// [*client.APIError] carrying the remote message verbatim.
//
// Two API generations are supported, selected with [client.Legacy] or
// [client.Current]. Methods the selected generation does not offer return
// [ErrUnsupported] without contacting the service.
package vhall
