// Command psi runs one side of the cwPRF private set intersection
// protocol over a plain TCP socket: the sender listens, the receiver
// dials, grounded on the teacher's example/main.go dial/listen shape with
// libp2p replaced by pkg/channel's net.Listen/net.Dial.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/taurusgroup/psi-psu/pkg/block"
	"github.com/taurusgroup/psi-psu/pkg/channel"
	"github.com/taurusgroup/psi-psu/pkg/pool"
	"github.com/taurusgroup/psi-psu/pkg/psi"
)

const defaultPort = "9443"

func main() {
	role := flag.String("role", "", "sender or receiver")
	addr := flag.String("addr", "", "peer address (receiver dials this, sender binds it)")
	nS := flag.Int("ns", 16, "Sender set size, agreed out of band by both parties")
	nR := flag.Int("nr", 16, "Receiver set size, agreed out of band by both parties")
	flag.Parse()

	log := zerolog.New(zerolog.NewConsoleWriter()).Level(zerolog.InfoLevel).With().Str("cmd", "psi").Logger()

	if *role == "" {
		*role = prompt("role (sender/receiver): ")
	}
	if *addr == "" {
		*addr = prompt(fmt.Sprintf("peer address [host:%s]: ", defaultPort))
		if *addr == "" {
			*addr = "0.0.0.0:" + defaultPort
		}
	}

	pp := psi.Setup(uint64(*nS), uint64(*nR))

	switch strings.ToLower(*role) {
	case "sender":
		if err := runSender(*addr, pp, log); err != nil {
			log.Error().Err(err).Msg("sender failed")
			os.Exit(1)
		}
	case "receiver":
		if err := runReceiver(*addr, pp, log); err != nil {
			log.Error().Err(err).Msg("receiver failed")
			os.Exit(1)
		}
	default:
		log.Error().Str("role", *role).Msg("unknown role")
		os.Exit(1)
	}
}

func prompt(label string) string {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func randomSet(n uint64) []block.Block {
	out := make([]block.Block, n)
	for i := range out {
		out[i] = block.FromU64Pair(uint64(i), uint64(i)*31+7)
	}
	return out
}

func runSender(addr string, pp *psi.PP, log zerolog.Logger) error {
	ch, err := channel.Listen(addr)
	if err != nil {
		return err
	}
	defer ch.Close()

	y := randomSet(pp.NR)
	p := pool.NewPool(0)
	defer p.TearDown()

	log.Info().Uint64("n", pp.NR).Msg("sending Y set")
	if err := psi.Send(ch, pp, y, p); err != nil {
		return err
	}
	log.Info().Msg("session complete")
	return nil
}

func runReceiver(addr string, pp *psi.PP, log zerolog.Logger) error {
	ch, err := channel.Dial(addr)
	if err != nil {
		return err
	}
	defer ch.Close()

	x := randomSet(pp.NS)
	p := pool.NewPool(0)
	defer p.TearDown()

	intersection, err := psi.Receive(ch, pp, x, p)
	if err != nil {
		return err
	}
	log.Info().Int("intersection_size", len(intersection)).Msg("session complete")
	return nil
}
