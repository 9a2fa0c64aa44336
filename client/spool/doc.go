// Package spool writes fetched asset content to disk so it can be sent as
// a file-backed upload. Content goes to a temporary file next to the
// destination and is renamed into place only once it is complete, with
// optional checksum verification and progress logging.
//
//	path, err := spool.Temp(ctx, bytes.NewReader(content), int64(len(content)), "jpg", logger,
//		spool.WithChecksum(md5.New(), expectedHex),
//	)
//	defer os.Remove(path)
package spool
