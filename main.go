// Command resistance-client is a terminal client for the resistance game
// server. It keeps one persistent connection alive across network drops,
// resumes the stored session after reconnects and restarts, and exposes
// the usual room actions as interactive commands.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/QuintaPe/resistance-client/game/client"
	"github.com/QuintaPe/resistance-client/game/config"
	"github.com/QuintaPe/resistance-client/game/protocol"
	"github.com/QuintaPe/resistance-client/game/session"
	"github.com/QuintaPe/resistance-client/transport/socket"
)

const (
	appName    = "resistance-client"
	appVersion = "1.0.0"
)

func main() {
	// A missing .env file is the normal case.
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:    appName,
		Usage:   "terminal client for the resistance game server",
		Version: appVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "server",
				Usage: "websocket endpoint of the game server",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a YAML config file",
			},
			&cli.StringFlag{
				Name:  "session-file",
				Usage: "where to persist the session (empty disables persistence)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	logger, err := buildLogger(cmd.Bool("debug"))
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	if v := cmd.String("server"); v != "" {
		cfg.ServerURL = v
	}
	if cmd.IsSet("session-file") {
		cfg.SessionFile = cmd.String("session-file")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := buildStore(cfg, logger)
	if err != nil {
		return err
	}

	conn, err := socket.New(socket.Options{
		URL:              cfg.ServerURL,
		MinRetryDelay:    cfg.MinRetryDelay,
		MaxRetryDelay:    cfg.MaxRetryDelay,
		HandshakeTimeout: cfg.HandshakeTimeout,
		Logger:           logger,
	})
	if err != nil {
		return err
	}

	cl := client.New(client.Options{
		Transport:       conn,
		Store:           store,
		ResumeTimeout:   cfg.ResumeTimeout,
		NotificationTTL: cfg.NotificationTTL,
		Logger:          logger,
	})

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := cl.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("client loop ended", zap.Error(err))
		}
	}()
	go printUpdates(ctx, cl)
	conn.Start(ctx)
	defer conn.Close()

	fmt.Printf("%s v%s — connecting to %s\n", appName, appVersion, cfg.ServerURL)
	fmt.Println(`Type "help" for commands.`)

	return repl(ctx, cl)
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildStore selects file-backed persistence, degrading to a no-op store
// when the session file cannot be set up.
func buildStore(cfg config.Config, logger *zap.Logger) (session.Store, error) {
	if cfg.SessionFile == "" {
		return session.NoopStore{}, nil
	}
	store, err := session.NewFileStore(cfg.SessionFile)
	if err != nil {
		logger.Warn("session persistence unavailable", zap.Error(err))
		return session.NoopStore{}, nil
	}
	return store, nil
}

// printUpdates renders notifications and snapshot changes as they arrive.
func printUpdates(ctx context.Context, cl *client.Client) {
	notifications := cl.Notifications().Updates()
	snapshots := cl.Room().Subscribe()

	for {
		select {
		case n := <-notifications:
			fmt.Printf("[%s] %s\n", n.Severity, n.Text)
		case snap := <-snapshots:
			fmt.Println(summarize(snap, cl))
		case <-ctx.Done():
			return
		}
	}
}

// summarize renders a one-screen view of the room.
func summarize(snap *protocol.RoomSnapshot, cl *client.Client) string {
	var b strings.Builder
	fmt.Fprintf(&b, "room %s — phase %s", snap.Code, snap.Phase)
	if leader, ok := snap.Leader(); ok {
		fmt.Fprintf(&b, " — leader %s", leader.Name)
	}
	b.WriteString("\n players:")
	for _, p := range snap.Players {
		marker := ""
		if p.ID == snap.CreatorID {
			marker = "*"
		}
		if cl.Presence().IsDisconnected(p.ID) {
			marker += " (offline)"
		}
		fmt.Fprintf(&b, " %s%s", p.Name, marker)
	}
	if len(snap.ProposedTeam) > 0 {
		fmt.Fprintf(&b, "\n proposed team: %s", strings.Join(snap.ProposedTeam, ", "))
	}
	if len(snap.MissionResults) > 0 {
		b.WriteString("\n missions:")
		for i, m := range snap.MissionResults {
			outcome := "failed"
			if m.Success {
				outcome = "succeeded"
			}
			fmt.Fprintf(&b, " %d=%s", i+1, outcome)
		}
	}
	if snap.RejectedProposals > 0 {
		fmt.Fprintf(&b, "\n rejected proposals in a row: %d", snap.RejectedProposals)
	}
	return b.String()
}

// repl reads commands from stdin until EOF or cancellation.
func repl(ctx context.Context, cl *client.Client) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := execute(cl, strings.TrimSpace(line)); quit {
				return nil
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// ack prints the server's answer to a dispatched action.
func ack(action string) client.AckFunc {
	return func(ok bool, reason string) {
		if ok {
			fmt.Printf("%s: ok\n", action)
		} else {
			fmt.Printf("%s: rejected — %s\n", action, reason)
		}
	}
}

func execute(cl *client.Client, line string) bool {
	if line == "" {
		return false
	}
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	var err error
	switch cmd {
	case "help":
		printHelp()

	case "create":
		if len(args) != 1 {
			err = fmt.Errorf("usage: create <name>")
			break
		}
		err = cl.CreateRoom(args[0], ack("create"))

	case "join":
		if len(args) != 2 {
			err = fmt.Errorf("usage: join <code> <name>")
			break
		}
		err = cl.JoinRoom(strings.ToUpper(args[0]), args[1], ack("join"))

	case "start":
		err = cl.StartGame(ack("start"))

	case "propose":
		if len(args) != 1 {
			err = fmt.Errorf("usage: propose <id,id,...>")
			break
		}
		err = cl.ProposeTeam(strings.Split(args[0], ","), ack("propose"))

	case "vote":
		if len(args) != 1 || (args[0] != "yes" && args[0] != "no") {
			err = fmt.Errorf("usage: vote yes|no")
			break
		}
		err = cl.VoteTeam(args[0] == "yes", ack("vote"))

	case "mission":
		if len(args) != 1 || (args[0] != "success" && args[0] != "fail") {
			err = fmt.Errorf("usage: mission success|fail")
			break
		}
		err = cl.MissionAct(args[0] == "success", ack("mission"))

	case "role":
		if role, ok := cl.Room().Role(); ok {
			fmt.Printf("you are %s", role.Role)
			if len(role.Spies) > 0 {
				fmt.Printf(" — spies: %s", strings.Join(role.Spies, ", "))
			}
			fmt.Println()
		} else {
			err = cl.RequestRole(ack("role"))
		}

	case "kick":
		if len(args) != 1 {
			err = fmt.Errorf("usage: kick <player-id>")
			break
		}
		err = cl.KickPlayer(args[0], ack("kick"))

	case "leader":
		if len(args) != 1 {
			err = fmt.Errorf("usage: leader <index>")
			break
		}
		var idx int
		if idx, err = strconv.Atoi(args[0]); err == nil {
			err = cl.ChangeLeader(idx, ack("leader"))
		}

	case "restart":
		err = cl.RestartGame(ack("restart"))

	case "lobby":
		err = cl.ReturnToLobby(ack("lobby"))

	case "leave":
		err = cl.LeaveRoom(ack("leave"))

	case "who":
		if snap, ok := cl.Room().Current(); ok {
			fmt.Println(summarize(snap, cl))
		} else {
			fmt.Println("not in a room")
		}

	case "status":
		fmt.Printf("connected=%v reconnecting=%v resume=%s\n",
			cl.Connected(), cl.Reconnecting(), cl.ResumeStatus())
		for _, n := range cl.Notifications().Active() {
			fmt.Printf("  [%s] %s\n", n.Severity, n.Text)
		}

	case "quit", "exit":
		return true

	default:
		err = fmt.Errorf("unknown command %q, try \"help\"", cmd)
	}

	if err != nil {
		fmt.Println("error:", err)
	}
	return false
}

func printHelp() {
	fmt.Print(`commands:
  create <name>           create a room
  join <code> <name>      join a room by code
  start                   start the game (creator only)
  propose <id,id,...>     propose a mission team (leader only)
  vote yes|no             vote on the proposed team
  mission success|fail    play your mission card
  role                    show or fetch your role
  kick <player-id>        remove a player (creator only)
  leader <index>          hand leadership to a seat
  restart                 restart with the same roster
  lobby                   return the room to the lobby
  leave                   leave the room for good
  who                     show the current room
  status                  show connection state and notifications
  quit                    exit
`)
}
