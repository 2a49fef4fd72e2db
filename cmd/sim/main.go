package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cbodonnell/snake/pkg/game/constants"
	"github.com/cbodonnell/snake/pkg/game/rules"
	"github.com/cbodonnell/snake/pkg/game/types"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/version"
)

// Runs one game without a server and prints every tick.
// Turns are given as tick:direction pairs, e.g. -turns "6:down,12:left".
func main() {
	gridSize := flag.Int("grid", constants.DefaultGridSize, "Grid size")
	seed := flag.Int64("seed", 1, "Seed for food placement")
	ticks := flag.Int("ticks", 30, "Maximum number of ticks to run")
	turnsFlag := flag.String("turns", "", "Comma separated tick:direction turns")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}
	log.SetDefaultLogger(log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel))
	log.Info("Starting simulation version %s", version.Get())

	turns, err := parseTurns(*turnsFlag)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse turns: %v", err))
	}

	rng := rules.NewRandomSource(*seed)
	state := rules.Initialize(*gridSize, rng)
	log.Info("Initial state: head %s, food %s", state.Head(), foodString(state.Food))

	for tick := 1; tick <= *ticks && !state.IsGameOver; tick++ {
		if d, ok := turns[tick]; ok {
			state = rules.SetPendingDirection(state, d)
		}

		before := state
		state = rules.AdvanceTick(before, rng)
		result := rules.DescribeTick(before, state)

		switch {
		case result.GameOver:
			log.Info("Tick %d: game over heading %s with score %d", tick, state.Direction, state.Score)
		case result.AteFood:
			log.Info("Tick %d: ate food at %s, score %d, next food %s", tick, state.Head(), state.Score, foodString(state.Food))
		default:
			log.Debug("Tick %d: head %s", tick, state.Head())
		}
	}

	fmt.Print(rules.Render(state))
	log.Info("Final score %d, length %d", state.Score, len(state.Snake))
}

func parseTurns(s string) (map[int]types.Direction, error) {
	turns := make(map[int]types.Direction)
	if s == "" {
		return turns, nil
	}
	for _, part := range strings.Split(s, ",") {
		tickStr, directionStr, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("turn %q is not tick:direction", part)
		}
		tick, err := strconv.Atoi(tickStr)
		if err != nil || tick < 1 {
			return nil, fmt.Errorf("invalid tick in turn %q", part)
		}
		d, err := types.ParseDirection(directionStr)
		if err != nil {
			return nil, err
		}
		turns[tick] = d
	}
	return turns, nil
}

func foodString(food *types.Point) string {
	if food == nil {
		return "none"
	}
	return food.String()
}
