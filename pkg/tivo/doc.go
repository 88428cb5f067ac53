// Package tivo provides a client for controlling TiVo-based set-top boxes
// over their TCP remote protocol.
//
// # Basic Usage
//
//	ctx := context.Background()
//	client, err := tivo.NewClient("192.168.1.50")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := client.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Disconnect()
//
//	if err := client.SetChannel(ctx, 105); err != nil {
//	    log.Fatal(err)
//	}
//	if ch, ok := client.Device().ChannelNumber(); ok {
//	    fmt.Println("tuned to", ch)
//	}
//
// # Configuration
//
// The client can be configured using functional options:
//
//	client, err := tivo.NewClient("192.168.1.50",
//	    tivo.WithPort(31339),
//	    tivo.WithConnectTimeout(2*time.Second),
//	    tivo.WithCommandTimeout(2*time.Second),
//	    tivo.WithLogger(slog.Default()),
//	)
//
// # Protocol
//
// This package implements the TiVo TCP remote protocol as spoken by
// Virgin Media V6 and similar TiVo-based boxes. Commands are single
// upper-case text lines terminated with a carriage return (IRCODE,
// KEYBOARD, TELEPORT, SETCH); the box answers with short status lines
// (CH_STATUS, CH_FAILED) and also pushes a channel status whenever the
// channel changes, including changes made with the physical remote.
// The protocol uses TCP port 31339 by default and does not support TLS.
package tivo
