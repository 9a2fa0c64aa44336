// Package client is the signing and transport core of the vhall SDK.
//
// # Building a Client
//
// A [Client] is bound to one [Credential] and one API [Variant]. Build it
// once and share it; it is safe for concurrent use:
//
//	c, err := client.Build(
//		client.Credential{AppKey: "key", SecretKey: "secret"},
//		client.Current,
//		client.WithTimeout(10*time.Second),
//		client.WithPathThrottle(5, 5),
//	)
//
// No timeout applies unless [WithTimeout] is given; callers that need
// bounded latency set one or pass a context with a deadline.
//
// # Parameters and Signing
//
// Parameters are [Params], a map of tagged [Value]s. Every request is
// sealed into an [Envelope]: the variant metadata and a millisecond
// signed_at are merged in, and the sign field is the MD5 of the secret,
// the non-binary parameters in ascending key order, and the secret again:
//
//	sign = md5(secret + k1 + v1 + k2 + v2 + ... + secret)
//
// Binary values ([Bytes] and [File]) are never signed and are sent as
// application/octet-stream file parts.
//
// # Calling the API
//
// [Client.Call] signs, posts and normalizes in one step:
//
//	data, err := c.Call(ctx, "/webinars/webinar/info", client.Params{
//		"webinar_id": client.String("42"),
//	})
//
// A remote code other than "200" is returned as an [*APIError] whose
// message is the remote msg verbatim. Network failures and empty bodies
// are [*TransportError]s. [DataAs] reshapes the untyped data.
//
// [Client.Get] fetches arbitrary remote content, e.g. an image that is
// then re-uploaded.
package client
