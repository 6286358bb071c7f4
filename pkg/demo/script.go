package demo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vango-dev/reactor/pkg/view"
)

// RunScript drives app with one command per line and writes results to w.
//
//	reset | inc | columns | add | bump <id> | remove <id>
//	name <text> | email <text> | submit
//	unmount-email | mount-email | render
//
// Blank lines and lines starting with '#' are ignored. A failing action is
// reported on w and the script continues; an unknown command stops it.
func RunScript(app *App, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		cmd, arg, _ := strings.Cut(text, " ")
		arg = strings.TrimSpace(arg)

		out, err := runCommand(app, cmd, arg)
		if err != nil {
			var se *scriptError
			if errors.As(err, &se) {
				return &LineError{Line: line, Err: err}
			}
			out = "error: " + err.Error() + "\n"
		}
		if _, err := io.WriteString(w, out); err != nil {
			return err
		}
	}
	return sc.Err()
}

// ErrInvalidScript is wrapped by the error for a malformed script line.
var ErrInvalidScript = errors.New("demo: invalid script")

// LineError reports the script line that stopped RunScript.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// scriptError marks malformed input, as opposed to a failing action.
type scriptError struct {
	msg string
}

func (e *scriptError) Error() string {
	return e.msg
}

func (e *scriptError) Unwrap() error {
	return ErrInvalidScript
}

func runCommand(app *App, cmd, arg string) (string, error) {
	switch cmd {
	case "reset":
		return "", app.Reset()
	case "inc":
		return "", app.Increment()
	case "columns":
		return "", app.AddColumns()
	case "add":
		id, err := app.AddCounter()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("added counter %d\n", id), nil
	case "bump", "remove":
		id, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return "", &scriptError{msg: fmt.Sprintf("%s: invalid counter id %q", cmd, arg)}
		}
		if cmd == "bump" {
			return "", app.IncrementCounter(id)
		}
		return "", app.RemoveCounter(id)
	case "name":
		return "", app.TypeName(arg)
	case "email":
		return "", app.TypeEmail(arg)
	case "submit":
		sub, err := app.Submit()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("submitted name=%q email=%q\n", sub.Name, sub.Email), nil
	case "unmount-email":
		app.UnmountEmail()
		return "", nil
	case "mount-email":
		app.MountEmail()
		return "", nil
	case "render":
		return view.String(app.View()), nil
	default:
		return "", &scriptError{msg: fmt.Sprintf("unknown command %q", cmd)}
	}
}
