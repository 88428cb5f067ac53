package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/zberg/go-tivo/pkg/tivo"
)

var (
	targetHost     string
	targetPort     int
	connectTimeout time.Duration
	commandTimeout time.Duration
	verbose        bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&targetHost, "host", "", "Hostname or IP address of the set-top box")
	rootCmd.PersistentFlags().IntVar(&targetPort, "port", tivo.DefaultPort, "TCP port of the control connection")
	rootCmd.PersistentFlags().DurationVar(&connectTimeout, "timeout", time.Second, "Connection timeout")
	rootCmd.PersistentFlags().DurationVar(&commandTimeout, "command-timeout", time.Second, "Reply timeout per command")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(setChannelCmd)
	rootCmd.AddCommand(ircodeCmd)
	rootCmd.AddCommand(keyboardCmd)
	rootCmd.AddCommand(teleportCmd)
	rootCmd.AddCommand(powerCmd)
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover TiVo boxes on the network",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Discovering devices...")
		results, err := tivo.Discover(cmd.Context())
		if err != nil {
			fmt.Printf("Error discovering: %v\n", err)
			return
		}

		if len(results) == 0 {
			fmt.Println("No devices found.")
			return
		}

		for _, res := range results {
			fmt.Printf("Found device at: %s\n", res.IP)
		}
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Probe the box once and show the channel state",
	Run: func(cmd *cobra.Command, args []string) {
		client := getClient(cmd.Context())
		defer client.Disconnect()

		err := client.WaitForData(cmd.Context())
		if err != nil && !errors.Is(err, tivo.ErrCommandTimeout) {
			fmt.Printf("Error probing device: %v\n", err)
			return
		}

		printChannelState(client.Device())
	},
}

var setChannelCmd = &cobra.Command{
	Use:   "set-channel [channel-number]",
	Short: "Tune the box to a channel",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		channel, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Printf("Invalid channel number '%s': must be a number\n", args[0])
			os.Exit(1)
		}

		client := getClient(cmd.Context())
		defer client.Disconnect()

		err = client.SetChannel(cmd.Context(), channel)
		switch {
		case err == nil:
			printChannelState(client.Device())
		case errors.Is(err, tivo.ErrNotLive):
			fmt.Println("Box is not in live TV mode; channel unchanged.")
		default:
			var cherr *tivo.InvalidChannelError
			if errors.As(err, &cherr) {
				fmt.Printf("Box rejected channel %d.\n", cherr.ChannelNumber)
				return
			}
			fmt.Printf("Error setting channel: %v\n", err)
		}
	},
}

var ircodeCmd = &cobra.Command{
	Use:   "ircode [code]",
	Short: "Send a remote-control code, e.g. standby or channelup",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := getClient(cmd.Context())
		defer client.Disconnect()

		var opts []tivo.SendOption
		if noReply, _ := cmd.Flags().GetBool("no-reply"); noReply {
			opts = append(opts, tivo.WithoutReply())
		}

		if err := client.SendIRCode(cmd.Context(), args[0], opts...); err != nil {
			var kerr *tivo.InvalidKeyError
			if errors.As(err, &kerr) {
				fmt.Printf("Box rejected key '%s'.\n", kerr.KeyCode)
				return
			}
			fmt.Printf("Error sending ircode: %v\n", err)
			return
		}
		fmt.Println("Code sent successfully.")
	},
}

var keyboardCmd = &cobra.Command{
	Use:   "keyboard [code]",
	Short: "Send a keyboard code",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := getClient(cmd.Context())
		defer client.Disconnect()

		var opts []tivo.SendOption
		if noReply, _ := cmd.Flags().GetBool("no-reply"); noReply {
			opts = append(opts, tivo.WithoutReply())
		}

		if err := client.SendKeyboard(cmd.Context(), args[0], opts...); err != nil {
			var kerr *tivo.InvalidKeyError
			if errors.As(err, &kerr) {
				fmt.Printf("Box rejected key '%s'.\n", kerr.KeyCode)
				return
			}
			fmt.Printf("Error sending keyboard code: %v\n", err)
			return
		}
		fmt.Println("Code sent successfully.")
	},
}

var teleportCmd = &cobra.Command{
	Use:   "teleport [screen]",
	Short: "Jump to a named screen, e.g. LIVETV or GUIDE",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := getClient(cmd.Context())
		defer client.Disconnect()

		if err := client.SendTeleport(cmd.Context(), args[0]); err != nil {
			var cerr *tivo.InvalidCommandError
			if errors.As(err, &cerr) {
				fmt.Printf("Box rejected teleport '%s'.\n", cerr.Command)
				return
			}
			fmt.Printf("Error sending teleport: %v\n", err)
			return
		}
		fmt.Println("Teleport sent successfully.")
	},
}

var powerCmd = &cobra.Command{
	Use:   "power [on|off]",
	Short: "Put the box into or out of standby",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "on":
			powerOn(cmd.Context())
		case "off":
			powerOff(cmd.Context())
		default:
			fmt.Printf("Invalid power state '%s': must be on or off\n", args[0])
			os.Exit(1)
		}
	},
}

// powerOn wakes the box with a standby code and polls until it reports a
// channel. The box does not answer commands while waking up, so the wake
// code is sent without a reply-wait and the probes tolerate timeouts.
func powerOn(ctx context.Context) {
	client := getClient(ctx)
	defer client.Disconnect()

	if err := client.SendIRCode(ctx, "standby", tivo.WithoutReply()); err != nil {
		fmt.Printf("Error waking device: %v\n", err)
		return
	}

	const maxProbes = 25
	for i := 0; i < maxProbes; i++ {
		err := client.WaitForData(ctx)
		if err != nil && !errors.Is(err, tivo.ErrCommandTimeout) {
			fmt.Printf("Error probing device: %v\n", err)
			return
		}
		if _, ok := client.Device().ChannelNumber(); ok {
			printChannelState(client.Device())
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("Device did not report a channel; it may still be starting up.")
}

// powerOff sends standby twice: the first press reaches the standby
// confirmation screen, the second confirms it.
func powerOff(ctx context.Context) {
	client := getClient(ctx)
	defer client.Disconnect()

	for i := 0; i < 2; i++ {
		err := client.SendIRCode(ctx, "standby")
		if err != nil && !errors.Is(err, tivo.ErrCommandTimeout) {
			fmt.Printf("Error sending standby: %v\n", err)
			return
		}
	}
	fmt.Println("Standby sent.")
}

func init() {
	ircodeCmd.Flags().Bool("no-reply", false, "Do not wait for the box to reply")
	keyboardCmd.Flags().Bool("no-reply", false, "Do not wait for the box to reply")
}

func printChannelState(device *tivo.Device) {
	if ch, ok := device.ChannelNumber(); ok {
		fmt.Printf("Current channel: %04d\n", ch)
	} else {
		fmt.Println("Current channel: unknown")
	}
	if prev, ok := device.PreviousChannelNumber(); ok {
		fmt.Printf("Previous channel: %04d\n", prev)
	}
}

func getClient(ctx context.Context) *tivo.Client {
	if targetHost == "" {
		fmt.Println("Host required. Use --host flag or run discover first.")
		os.Exit(1)
	}

	opts := []tivo.ClientOption{
		tivo.WithPort(targetPort),
		tivo.WithConnectTimeout(connectTimeout),
		tivo.WithCommandTimeout(commandTimeout),
	}
	if verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, tivo.WithLogger(logger))
	}

	client, err := tivo.NewClient(targetHost, opts...)
	if err != nil {
		fmt.Printf("Error creating client: %v\n", err)
		os.Exit(1)
	}

	if err := client.Connect(ctx); err != nil {
		fmt.Printf("Error connecting to %s: %v\n", targetHost, err)
		os.Exit(1)
	}
	return client
}
