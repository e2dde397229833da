package main

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/raqeebanjum/seniordesignproject/internal/api/receiving"
	"github.com/raqeebanjum/seniordesignproject/internal/middleware"
	jwtPkg "github.com/raqeebanjum/seniordesignproject/pkg/jwt"
	websocketPkg "github.com/raqeebanjum/seniordesignproject/pkg/websocket"
	"github.com/sirupsen/logrus"
	cli "github.com/spf13/pflag"
	"golang.org/x/net/context"
)

const usage = `Type what the operator says, one turn per line.
  :queue            show the session queue
  :reset            reset the session
  :enqueue <po>     force a purchase order onto the queue (admin)
  :dequeue          drop the queue head (admin)
  :quit             exit`

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	wsURL := cli.StringP("url", "u", "ws://localhost:3000/api/v1/receiving/ws", "Turn websocket url")
	session := cli.StringP("session", "s", receiving.DefaultSessionID, "Session id")
	locale := cli.StringP("locale", "l", "", "Locale sent with every turn (en, es)")
	logLevel := cli.String("log", "info", "Log level")
	cli.Parse()

	logger := logrus.New()
	logger.SetFormatter(&formatter.Formatter{HideKeys: true, TimestampFormat: time.TimeOnly})
	if level, err := logrus.ParseLevel(*logLevel); err == nil {
		logger.SetLevel(level)
	}

	_ = godotenv.Load(*envFile)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	client, err := websocketPkg.Dial(ctx, *wsURL, *session, nil, logger)
	cancel()
	if err != nil {
		logger.Fatalf("Failed to connect: %v", err)
	}
	defer client.Close()

	api, err := apiBase(*wsURL)
	if err != nil {
		logger.Fatalf("Invalid url: %v", err)
	}

	fmt.Println(usage)
	scanner := bufio.NewScanner(os.Stdin)
	for fmt.Print("> "); scanner.Scan(); fmt.Print("> ") {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ":") {
			if line == ":quit" {
				return
			}
			command(logger, api, *session, line)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		resp, err := client.Turn(ctx, receiving.TurnRequest{Transcript: line, Locale: *locale})
		cancel()
		if err != nil {
			logger.Errorf("Turn failed: %v", err)
			if !client.IsConnected() {
				return
			}
			continue
		}

		fmt.Printf("[%s] %s\n", resp.State, resp.Message)
		if resp.Details != nil {
			fmt.Println(*resp.Details)
		}
	}
}

// apiBase turns ws://host/api/v1/receiving/ws into http://host/api/v1/receiving.
func apiBase(ws string) (string, error) {
	u, err := url.Parse(ws)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "ws":
		u.Scheme = "http"
	case "wss":
		u.Scheme = "https"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/ws")
	return u.String(), nil
}

func command(logger *logrus.Logger, api, session, line string) {
	fields := strings.Fields(line)

	var agent *fiber.Agent
	switch fields[0] {
	case ":queue":
		agent = fiber.Get(api + "/queue")
	case ":reset":
		agent = fiber.Post(api + "/reset")
	case ":enqueue":
		if len(fields) < 2 {
			logger.Warn("usage: :enqueue <po>")
			return
		}
		agent = fiber.Post(api + "/admin/queue").JSON(receiving.ForceEnqueueRequest{PONumber: fields[1]})
	case ":dequeue":
		agent = fiber.Delete(api + "/admin/queue/head")
	default:
		fmt.Println(usage)
		return
	}

	agent.Set(receiving.SessionHeader, session)
	if fields[0] == ":enqueue" || fields[0] == ":dequeue" {
		token, _, err := jwtPkg.Sign(map[string]interface{}{"id": "turnctl", "role": "admin"}, time.Minute, middleware.AccessTokenSecret)
		if err != nil {
			logger.Errorf("Cannot mint admin token: %v", err)
			return
		}
		agent.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		logger.Errorf("Request failed: %v", errs[0])
		return
	}
	fmt.Printf("%d %s\n", code, body)
}
