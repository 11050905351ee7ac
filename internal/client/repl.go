package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lgbarn/chess-server-go/internal/chess"
	"github.com/lgbarn/chess-server-go/internal/engine"
	"github.com/lgbarn/chess-server-go/internal/errors"
	"github.com/lgbarn/chess-server-go/internal/model"
	"github.com/lgbarn/chess-server-go/internal/output"
)

type replState int

const (
	loggedOut replState = iota
	loggedIn
	inGame
)

type command struct {
	name  string
	args  string
	help  string
	nargs int // minimum number of arguments
	run   func(ctx context.Context, args []string) (quit bool, err error)
}

// REPL is the interactive terminal client. Commands depend on the state:
// logged out, logged in, or inside a game.
type REPL struct {
	server   *ServerFacade
	in       *bufio.Scanner
	out      io.Writer
	renderer output.Renderer
	timeout  time.Duration

	outMu sync.Mutex

	state    replState
	token    string
	username string
	listed   []int // listed[n-1] is the server ID shown as game n
	ws       *WSFacade
	gameID   int
	colour   chess.Colour
	observer bool

	gameMu sync.Mutex
	game   *engine.Game
	events chan model.ServerMessage
}

// Option configures a REPL.
type Option func(*REPL)

// WithRenderer sets how boards are drawn.
func WithRenderer(r output.Renderer) Option {
	return func(repl *REPL) {
		repl.renderer = r
	}
}

// WithReplyTimeout bounds how long a game command waits for the server.
func WithReplyTimeout(d time.Duration) Option {
	return func(repl *REPL) {
		if d > 0 {
			repl.timeout = d
		}
	}
}

// NewREPL creates a REPL reading commands from in and writing to out.
func NewREPL(server *ServerFacade, in io.Reader, out io.Writer, opts ...Option) *REPL {
	r := &REPL{
		server:  server,
		in:      bufio.NewScanner(in),
		out:     out,
		timeout: 5 * time.Second,
		events:  make(chan model.ServerMessage, 16),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads and executes commands until quit or end of input.
func (r *REPL) Run(ctx context.Context) error {
	defer r.closeWS()

	r.println("Welcome to chess. Type 'help' to get started.")
	for {
		r.printf("%s >>> ", r.prompt())
		if !r.in.Scan() {
			r.println("")
			return r.in.Err()
		}
		fields := strings.Fields(r.in.Text())
		if len(fields) == 0 {
			continue
		}
		quit, err := r.execute(ctx, strings.ToLower(fields[0]), fields[1:])
		if err != nil {
			r.println(errorText(err))
		}
		if quit {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func (r *REPL) prompt() string {
	switch r.state {
	case loggedIn:
		return "[" + strings.ToUpper(r.username) + "]"
	case inGame:
		role := "OBSERVER"
		if !r.observer {
			role = r.colour.String()
		}
		return fmt.Sprintf("[(%s) %s]", role, strings.ToUpper(r.username))
	}
	return "[LOGGED_OUT]"
}

func (r *REPL) execute(ctx context.Context, name string, args []string) (bool, error) {
	for _, c := range r.commands() {
		if c.name != name {
			continue
		}
		if len(args) < c.nargs {
			return false, fmt.Errorf("usage: %s %s", c.name, c.args)
		}
		return c.run(ctx, args)
	}
	return false, fmt.Errorf("unknown command %q. Type 'help' for a list of commands", name)
}

func (r *REPL) commands() []command {
	help := command{name: "help", help: "list available commands", run: r.help}
	quit := command{name: "quit", help: "exit the program", run: func(context.Context, []string) (bool, error) {
		return true, nil
	}}

	switch r.state {
	case loggedIn:
		return []command{
			help,
			{name: "logout", help: "log out", run: r.logout},
			{name: "create", args: "<name>", help: "create a game", nargs: 1, run: r.create},
			{name: "list", help: "list games", run: r.list},
			{name: "join", args: "<number> <WHITE|BLACK>", help: "join a game as a player", nargs: 2, run: r.join},
			{name: "observe", args: "<number>", help: "watch a game", nargs: 1, run: r.observe},
			quit,
		}
	case inGame:
		return []command{
			help,
			{name: "redraw", help: "redraw the board", run: r.redraw},
			{name: "move", args: "<from><to>[promotion]", help: "make a move, e.g. e2e4 or a7a8q", nargs: 1, run: r.move},
			{name: "highlight", args: "<square>", help: "show the legal moves of a piece", nargs: 1, run: r.highlight},
			{name: "leave", help: "leave the game", run: r.leave},
			{name: "resign", help: "concede the game", run: r.resign},
		}
	}
	return []command{
		help,
		{name: "register", args: "<username> <password> <email>", help: "create an account", nargs: 3, run: r.register},
		{name: "login", args: "<username> <password>", help: "log in", nargs: 2, run: r.login},
		quit,
	}
}

func (r *REPL) help(context.Context, []string) (bool, error) {
	for _, c := range r.commands() {
		usage := c.name
		if c.args != "" {
			usage += " " + c.args
		}
		r.printf("  %-40s %s\n", usage, c.help)
	}
	return false, nil
}

func (r *REPL) register(ctx context.Context, args []string) (bool, error) {
	a, err := r.server.Register(ctx, args[0], args[1], args[2])
	if err != nil {
		return false, err
	}
	r.loggedIn(a)
	r.printf("Registered and logged in as %s.\n", a.Username)
	return false, nil
}

func (r *REPL) login(ctx context.Context, args []string) (bool, error) {
	a, err := r.server.Login(ctx, args[0], args[1])
	if err != nil {
		return false, err
	}
	r.loggedIn(a)
	r.printf("Logged in as %s.\n", a.Username)
	return false, nil
}

func (r *REPL) loggedIn(a model.AuthData) {
	r.token = a.AuthToken
	r.username = a.Username
	r.listed = nil
	r.state = loggedIn
}

func (r *REPL) logout(ctx context.Context, _ []string) (bool, error) {
	if err := r.server.Logout(ctx, r.token); err != nil {
		return false, err
	}
	r.token, r.username, r.listed = "", "", nil
	r.state = loggedOut
	r.println("Logged out.")
	return false, nil
}

func (r *REPL) create(ctx context.Context, args []string) (bool, error) {
	name := strings.Join(args, " ")
	if _, err := r.server.CreateGame(ctx, r.token, name); err != nil {
		return false, err
	}
	r.printf("Created game '%s'.\n", name)
	return false, r.refresh(ctx)
}

func (r *REPL) refresh(ctx context.Context) error {
	games, err := r.server.ListGames(ctx, r.token)
	if err != nil {
		return err
	}
	r.listed = r.listed[:0]
	for _, g := range games {
		r.listed = append(r.listed, g.GameID)
	}
	return nil
}

func (r *REPL) list(ctx context.Context, _ []string) (bool, error) {
	games, err := r.server.ListGames(ctx, r.token)
	if err != nil {
		return false, err
	}
	r.listed = r.listed[:0]
	if len(games) == 0 {
		r.println("No games yet. Use 'create <name>' to start one.")
		return false, nil
	}
	for i, g := range games {
		r.listed = append(r.listed, g.GameID)
		status := ""
		if g.Over {
			status = "  (over)"
		}
		r.printf("%d. %-20s WHITE: %-12s BLACK: %-12s%s\n", i+1, g.GameName, seat(g.WhiteUsername), seat(g.BlackUsername), status)
	}
	return false, nil
}

func seat(name string) string {
	if name == "" {
		return "EMPTY"
	}
	return name
}

// lookup maps a listed game number to its server ID.
func (r *REPL) lookup(ctx context.Context, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%q is not a game number", arg)
	}
	if len(r.listed) == 0 {
		if err := r.refresh(ctx); err != nil {
			return 0, err
		}
	}
	if n < 1 || n > len(r.listed) {
		return 0, fmt.Errorf("no game %d. Use 'list' to see the games", n)
	}
	return r.listed[n-1], nil
}

func (r *REPL) join(ctx context.Context, args []string) (bool, error) {
	id, err := r.lookup(ctx, args[0])
	if err != nil {
		return false, err
	}
	colourName := strings.ToUpper(args[1])
	var colour chess.Colour
	switch colourName {
	case "WHITE":
		colour = chess.White
	case "BLACK":
		colour = chess.Black
	default:
		return false, fmt.Errorf("colour must be WHITE or BLACK")
	}
	if err := r.server.JoinGame(ctx, r.token, colourName, id); err != nil {
		return false, err
	}
	return false, r.enterGame(ctx, id, colour, false)
}

func (r *REPL) observe(ctx context.Context, args []string) (bool, error) {
	id, err := r.lookup(ctx, args[0])
	if err != nil {
		return false, err
	}
	return false, r.enterGame(ctx, id, chess.White, true)
}

// enterGame follows game id over the websocket and waits for its board.
func (r *REPL) enterGame(ctx context.Context, id int, colour chess.Colour, observer bool) error {
	if r.ws == nil {
		ws, err := DialWS(ctx, r.server.BaseURL(), r.onMessage)
		if err != nil {
			return err
		}
		r.ws = ws
	}
	r.gameID, r.colour, r.observer = id, colour, observer

	msg, err := r.roundTrip(func() error { return r.ws.Connect(r.token, id) })
	if err != nil {
		return err
	}
	if msg.ServerMessageType == model.Error {
		r.closeWS()
		return nil
	}
	r.state = inGame
	return nil
}

func (r *REPL) redraw(context.Context, []string) (bool, error) {
	return false, r.draw(nil)
}

func (r *REPL) move(_ context.Context, args []string) (bool, error) {
	if r.observer {
		return false, fmt.Errorf("observers cannot move")
	}
	m, err := chess.ParseMove(strings.ToLower(strings.Join(args, "")))
	if err != nil {
		return false, err
	}
	_, err = r.roundTrip(func() error { return r.ws.MakeMove(r.token, r.gameID, m) })
	return false, err
}

func (r *REPL) highlight(_ context.Context, args []string) (bool, error) {
	pos, err := chess.ParsePosition(strings.ToLower(args[0]))
	if err != nil {
		return false, err
	}
	r.gameMu.Lock()
	game := r.game
	r.gameMu.Unlock()
	if game == nil {
		return false, fmt.Errorf("no board loaded yet")
	}
	if _, ok := game.Board().Get(pos); !ok {
		return false, fmt.Errorf("no piece on %s", pos)
	}

	highlights := []chess.Position{pos}
	for _, m := range game.ValidMoves(pos) {
		highlights = append(highlights, m.End)
	}
	return false, r.draw(highlights)
}

func (r *REPL) leave(context.Context, []string) (bool, error) {
	if err := r.ws.Leave(r.token, r.gameID); err != nil {
		return false, err
	}
	r.closeWS()
	r.state = loggedIn
	r.println("You left the game.")
	return false, nil
}

func (r *REPL) resign(context.Context, []string) (bool, error) {
	if r.observer {
		return false, fmt.Errorf("observers cannot resign")
	}
	r.print("Are you sure you want to resign? (yes/no) ")
	if !r.in.Scan() || !strings.EqualFold(strings.TrimSpace(r.in.Text()), "yes") {
		r.println("Resignation cancelled.")
		return false, nil
	}
	_, err := r.roundTrip(func() error { return r.ws.Resign(r.token, r.gameID) })
	return false, err
}

// roundTrip sends a websocket command and waits for the next message the
// server pushes, which the reader goroutine has already printed.
func (r *REPL) roundTrip(send func() error) (model.ServerMessage, error) {
	for len(r.events) > 0 {
		<-r.events
	}
	if err := send(); err != nil {
		return model.ServerMessage{}, err
	}
	timer := time.NewTimer(r.timeout)
	defer timer.Stop()
	select {
	case msg := <-r.events:
		return msg, nil
	case <-r.ws.Done():
		return model.ServerMessage{}, fmt.Errorf("connection to server lost: %w", r.ws.Err())
	case <-timer.C:
		return model.ServerMessage{}, fmt.Errorf("no reply from server after %s", r.timeout)
	}
}

// onMessage runs on the websocket reader goroutine.
func (r *REPL) onMessage(msg model.ServerMessage) {
	switch msg.ServerMessageType {
	case model.LoadGame:
		game, err := output.GameFromJSON(msg.Game)
		if err != nil {
			r.println(errorText(err))
			break
		}
		r.gameMu.Lock()
		r.game = game
		r.gameMu.Unlock()
		if err := r.draw(nil); err != nil {
			r.println(errorText(err))
		}
	case model.Notification:
		r.println(msg.Message)
	case model.Error:
		r.println(msg.ErrorMessage)
	}

	select {
	case r.events <- msg:
	default:
	}
}

func (r *REPL) draw(highlights []chess.Position) error {
	r.gameMu.Lock()
	game := r.game
	r.gameMu.Unlock()
	if game == nil {
		return fmt.Errorf("no board loaded yet")
	}

	perspective := r.colour
	if r.observer {
		perspective = chess.White
	}
	r.outMu.Lock()
	defer r.outMu.Unlock()
	fmt.Fprintln(r.out)
	if err := r.renderer.Render(r.out, game.Board(), perspective, highlights); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s to move\n", game.Turn())
	return nil
}

func (r *REPL) closeWS() {
	if r.ws == nil {
		return
	}
	_ = r.ws.Close()
	<-r.ws.Done()
	r.ws = nil
	r.gameMu.Lock()
	r.game = nil
	r.gameMu.Unlock()
}

func (r *REPL) print(s string) {
	r.outMu.Lock()
	defer r.outMu.Unlock()
	fmt.Fprint(r.out, s)
}

func (r *REPL) println(s string) {
	r.outMu.Lock()
	defer r.outMu.Unlock()
	fmt.Fprintln(r.out, s)
}

func (r *REPL) printf(format string, args ...any) {
	r.outMu.Lock()
	defer r.outMu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}

func errorText(err error) string {
	var re *ResponseError
	if errors.As(err, &re) && strings.HasPrefix(re.Message, "Error: ") {
		return re.Message
	}
	return "Error: " + err.Error()
}
