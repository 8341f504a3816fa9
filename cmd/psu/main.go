// Command psu runs one side of the mqRPMT-based private set union
// protocol over a plain TCP socket: the sender listens, the receiver
// dials, mirroring cmd/psi's CLI shape.
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
	"github.com/taurusgroup/psi-psu/pkg/curve"
	"github.com/taurusgroup/psi-psu/pkg/pool"
	"github.com/taurusgroup/psi-psu/pkg/psu"
)

const defaultPort = "9444"

func main() {
	role := flag.String("role", "", "sender or receiver")
	addr := flag.String("addr", "", "peer address (receiver dials this, sender binds it)")
	nS := flag.Uint64("ns", 128, "Sender set size (multiple of 128), agreed out of band")
	nR := flag.Uint64("nr", 128, "Receiver set size, agreed out of band")
	flag.Parse()

	log := zerolog.New(zerolog.NewConsoleWriter()).Level(zerolog.InfoLevel).With().Str("cmd", "psu").Logger()

	if *role == "" {
		*role = prompt("role (sender/receiver): ")
	}
	if *addr == "" {
		*addr = prompt(fmt.Sprintf("peer address [host:%s]: ", defaultPort))
		if *addr == "" {
			*addr = "0.0.0.0:" + defaultPort
		}
	}

	c := curve.P256

	switch strings.ToLower(*role) {
	case "sender":
		if err := runSender(*addr, c, *nS, *nR, log); err != nil {
			log.Error().Err(err).Msg("sender failed")
			os.Exit(1)
		}
	case "receiver":
		if err := runReceiver(*addr, c, *nS, *nR, log); err != nil {
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
		out[i] = block.FromU64Pair(uint64(i), uint64(i)*97+3)
	}
	return out
}

func runSender(addr string, c curve.Curve, nS, nR uint64, log zerolog.Logger) error {
	ch, err := channel.Listen(addr)
	if err != nil {
		return err
	}
	defer ch.Close()

	x := randomSet(nS)
	p := pool.NewPool(0)
	defer p.TearDown()

	log.Info().Uint64("n", nS).Msg("contributing X set")
	if err := psu.Send(ch, c, x, nR, p); err != nil {
		return err
	}
	log.Info().Msg("session complete")
	return nil
}

func runReceiver(addr string, c curve.Curve, nS, nR uint64, log zerolog.Logger) error {
	ch, err := channel.Dial(addr)
	if err != nil {
		return err
	}
	defer ch.Close()

	y := randomSet(nR)
	p := pool.NewPool(0)
	defer p.TearDown()

	union, err := psu.Receive(ch, c, y, nS, p)
	if err != nil {
		return err
	}
	log.Info().Int("union_size", len(union)).Msg("session complete")
	return nil
}
