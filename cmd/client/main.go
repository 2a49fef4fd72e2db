package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cbodonnell/snake/pkg/api/handlers"
	"github.com/cbodonnell/snake/pkg/game/rules"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/messages"
	"github.com/cbodonnell/snake/pkg/network"
	"github.com/cbodonnell/snake/pkg/version"
	"nhooyr.io/websocket"
)

var keyDirections = map[string]string{
	"w": "up",
	"a": "left",
	"s": "down",
	"d": "right",
}

func main() {
	serverURL := flag.String("server", "http://127.0.0.1:8080", "Server base URL")
	sessionID := flag.String("session", "", "Session to join (a new one is created when empty)")
	gridSize := flag.Int("grid", 0, "Grid size of a new session")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}
	log.SetDefaultLogger(log.New(os.Stderr, "", log.DefaultLoggerFlag, parsedLogLevel))
	log.Info("Starting snake client version %s", version.Get())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *sessionID == "" {
		id, err := createSession(ctx, *serverURL, *gridSize)
		if err != nil {
			panic(fmt.Sprintf("Failed to create session: %v", err))
		}
		*sessionID = id
	}
	log.Info("Joining session %s", *sessionID)

	wsURL := strings.TrimSuffix(*serverURL, "/") + "/sessions/" + *sessionID + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to %s: %v", wsURL, err))
	}
	defer conn.Close(websocket.StatusNormalClosure, "")
	conn.SetReadLimit(messages.MessageBufferSize)

	go readUpdates(ctx, cancel, conn)
	go readInput(ctx, cancel, conn, *sessionID)

	<-ctx.Done()
	fmt.Println("Exiting client.")
}

func createSession(ctx context.Context, serverURL string, gridSize int) (string, error) {
	body, err := json.Marshal(&handlers.CreateSessionRequest{GridSize: gridSize})
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(serverURL, "/")+"/sessions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	created := &handlers.CreateSessionResponse{}
	if err := json.NewDecoder(resp.Body).Decode(created); err != nil {
		return "", fmt.Errorf("failed to decode response: %v", err)
	}
	return created.ID.String(), nil
}

func readUpdates(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn) {
	defer cancel()
	for {
		msg, err := network.ReadMessageFromWS(ctx, conn)
		if err != nil {
			if ctx.Err() == nil {
				log.Error("Server disconnected: %v", err)
			}
			return
		}

		switch msg.Type {
		case messages.MessageTypeServerGameUpdate:
			update, err := messages.DeserializeGameState(msg.Payload)
			if err != nil {
				log.Error("Failed to deserialize game state: %v", err)
				continue
			}
			fmt.Print("\033[H\033[2J")
			fmt.Print(rules.Render(update.State))
			fmt.Printf("tick %d  score %d  paused %t\n", update.Tick, update.State.Score, update.State.IsPaused)
			fmt.Println("w/a/s/d to turn, p to pause, u to resume, r to restart, q to quit")
		case messages.MessageTypeServerGameOver:
			gameOver := &messages.ServerGameOver{}
			if err := json.Unmarshal(msg.Payload, gameOver); err != nil {
				log.Error("Failed to unmarshal game over: %v", err)
				continue
			}
			fmt.Printf("Game over: score %d, length %d after %d ticks\n", gameOver.Score, gameOver.Length, gameOver.Ticks)
		case messages.MessageTypeServerError:
			serverError := &messages.ServerError{}
			if err := json.Unmarshal(msg.Payload, serverError); err == nil {
				log.Warn("Server rejected input: %s", serverError.Reason)
			}
		case messages.MessageTypeServerPong:
			log.Debug("Pong")
		default:
			log.Warn("Unexpected message type %s", msg.Type)
		}
	}
}

func readInput(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, sessionID string) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())

		var msg *messages.Message
		switch {
		case input == "q":
			cancel()
			return
		case input == "p" || input == "u":
			payload, _ := json.Marshal(&messages.ClientPause{Paused: input == "p"})
			msg = &messages.Message{SessionID: sessionID, Type: messages.MessageTypeClientPause, Payload: payload}
		case input == "r":
			msg = &messages.Message{SessionID: sessionID, Type: messages.MessageTypeClientRestart}
		case keyDirections[input] != "":
			payload, _ := json.Marshal(&messages.ClientSetDirection{Direction: keyDirections[input]})
			msg = &messages.Message{SessionID: sessionID, Type: messages.MessageTypeClientSetDirection, Payload: payload}
		default:
			continue
		}

		if err := network.WriteMessageToWS(ctx, conn, msg); err != nil {
			log.Error("Failed to send message: %v", err)
			cancel()
			return
		}
	}
	cancel()
}
