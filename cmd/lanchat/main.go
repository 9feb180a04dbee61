// lanchat is a LAN chat over UDP broadcast: every instance on the same IPv4
// subnet that binds the same port sees every line sent by every other.
//
// Each datagram payload is one plain-text chat line of the form
// "<nickname>: <message>", at most 1000 UTF-8 bytes, broadcast to
// 255.255.255.255 on the configured port. Anything received on the bound
// address is displayed, whoever produced it.
//
// Usage:
//
//	lanchat --ip 192.168.1.100 --port 12345         # bind and chat
//	lanchat --ip 192.168.1.100 --port 12345 --log   # also write logs/lanchat-<date>.log
//	lanchat --version
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"lanchat/internal/logging"
	"lanchat/internal/transport"
)

// Version is set via ldflags at build time (e.g. -X main.Version=v0.1.0).
var Version = "dev"

func main() {
	ipFlag := flag.String("ip", "", "IPv4 address to bind for receiving (required)")
	portFlag := flag.Int("port", 0, "UDP port for receiving and broadcasting (required)")
	logFlag := flag.Bool("log", false, "write diagnostics to logs/lanchat-<date>.log")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("lanchat %s\n", Version)
		os.Exit(0)
	}

	if *ipFlag == "" || *portFlag == 0 {
		fmt.Fprintln(os.Stderr, "lanchat: --ip and --port are required")
		flag.Usage()
		os.Exit(2)
	}

	ep, err := transport.ParseEndpoint(*ipFlag, *portFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lanchat: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	logger := logging.Discard()
	var logFile io.Closer
	if *logFlag {
		fileLogger, closer, err := logging.New("logs")
		if err != nil {
			fmt.Fprintf(os.Stderr, "lanchat: %v\n", err)
			os.Exit(1)
		}
		logger = fileLogger
		logFile = closer
	}
	logger.Info("starting", "version", Version, "endpoint", ep.String())

	sender, err := transport.NewSender(ep.Port)
	if err != nil {
		logger.Error("sender init failed", "err", err)
		fmt.Fprintf(os.Stderr, "lanchat: %v\n", err)
		os.Exit(1)
	}

	listener := transport.NewListener(ep, logger)
	if err := listener.Start(); err != nil {
		sender.Close()
		logger.Error("bind failed", "err", err)
		fmt.Fprintf(os.Stderr, "lanchat: %v\n", err)
		os.Exit(1)
	}

	m := newChatModel(ep, sender, logger)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Bridge inbound lines into the running program. The goroutine ends when
	// the listener closes its channel during shutdown.
	go func() {
		for line := range listener.Lines() {
			p.Send(inboundMsg(line))
		}
	}()

	_, runErr := p.Run()

	// Shutdown ordering matters: stop the listener first (flag, socket
	// close, wait for its goroutine), then release the send socket.
	listener.Stop()
	sender.Close()
	logger.Info("stopped")
	if logFile != nil {
		logFile.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "lanchat: %v\n", runErr)
		os.Exit(1)
	}
}
