// Package shell is a line-oriented terminal front end for the student form.
//
// It drives a form.Session the way the web page's buttons would: "set"
// is typing into an input, "submit" is the Add/Update button, "edit" and
// "delete" are the per-row buttons, "cancel" is the Cancel button. Delete
// asks for a y/N answer on the same input stream.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/aanand-mishra/student-crud/internal/attachment"
	"github.com/aanand-mishra/student-crud/internal/form"
	"github.com/aanand-mishra/student-crud/internal/storage"
	"github.com/aanand-mishra/student-crud/internal/types"
)

const helpText = `Commands:
  list                   show all students
  show                   show the form (mode, draft, errors)
  set <field> <value>    type into a field (name, email, phone, age, course, file)
  clear <field>          empty a field
  attach <path>          attach an image or PDF to the draft
  submit                 add the draft, or update the student being edited
  edit <id>              load a student into the form
  cancel                 discard the draft and stop editing
  delete <id>            delete a student (asks for confirmation)
  help                   this text
  quit                   leave`

// Shell reads commands from in and writes results to out.
//
// Input is scanned on a background goroutine so that a blocked read never
// hides a cancelled context: Run and Confirm return as soon as ctx is done,
// even when no line ever arrives.
type Shell struct {
	session     *form.Session
	attachments *attachment.Registry

	in  *bufio.Scanner
	out io.Writer

	scanOnce sync.Once
	lines    chan string
	scanErr  error // set before lines is closed
}

// New builds a shell. attachments may be nil, which disables "attach".
func New(session *form.Session, attachments *attachment.Registry, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		session:     session,
		attachments: attachments,
		in:          bufio.NewScanner(in),
		out:         out,
		lines:       make(chan string),
	}
}

// Run prints the table and then executes commands until "quit", end of
// input, or ctx is done.
func (sh *Shell) Run(ctx context.Context) error {
	sh.list()
	sh.prompt()

	for {
		line, ok, err := sh.readLine(ctx)
		if err != nil {
			fmt.Fprintln(sh.out)
			return err
		}
		if !ok {
			return nil
		}

		quit, err := sh.Exec(ctx, line)
		if err != nil {
			fmt.Fprintf(sh.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
		sh.prompt()
	}
}

// Exec runs a single command line. quit is true for "quit"/"exit".
// Errors are user-facing and never fatal.
func (sh *Shell) Exec(ctx context.Context, line string) (quit bool, err error) {
	cmd, rest := cut(line)

	switch strings.ToLower(cmd) {
	case "":
		return false, nil
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprintln(sh.out, helpText)
	case "list", "ls":
		sh.list()
	case "show":
		sh.show()
	case "set":
		name, value := cut(rest)
		return false, sh.set(name, value)
	case "clear":
		return false, sh.set(rest, "")
	case "attach":
		return false, sh.attach(rest)
	case "submit":
		return false, sh.submit()
	case "edit":
		id, err := parseID(rest)
		if err != nil {
			return false, err
		}
		if err := sh.session.Edit(id); err != nil {
			return false, friendly(err, id)
		}
		fmt.Fprintf(sh.out, "Editing student %d.\n", id)
		sh.show()
	case "cancel":
		sh.session.Cancel()
		fmt.Fprintln(sh.out, "Form cleared.")
	case "delete", "rm":
		id, err := parseID(rest)
		if err != nil {
			return false, err
		}
		return false, sh.delete(ctx, id)
	default:
		return false, fmt.Errorf("unknown command %q (try \"help\")", cmd)
	}

	return false, nil
}

// Confirm implements form.Confirmer by reading the next input line.
// Anything other than y/yes counts as no, including end of input.
// A cancelled ctx returns Declined with ctx.Err().
func (sh *Shell) Confirm(ctx context.Context, prompt string) (form.Decision, error) {
	if err := ctx.Err(); err != nil {
		return form.Declined, err
	}

	fmt.Fprintf(sh.out, "%s [y/N] ", prompt)
	answer, ok, err := sh.readLine(ctx)
	if err != nil || !ok {
		fmt.Fprintln(sh.out)
		return form.Declined, err
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return form.Confirmed, nil
	default:
		return form.Declined, nil
	}
}

// readLine waits for the next input line or for ctx to be done.
// ok is false at end of input; err is the scanner's error or ctx.Err().
func (sh *Shell) readLine(ctx context.Context) (string, bool, error) {
	sh.scanOnce.Do(func() { go sh.scan() })

	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case line, ok := <-sh.lines:
		if !ok {
			return "", false, sh.scanErr
		}
		return line, true, nil
	}
}

func (sh *Shell) scan() {
	defer close(sh.lines)
	for sh.in.Scan() {
		sh.lines <- sh.in.Text()
	}
	sh.scanErr = sh.in.Err()
}

func (sh *Shell) prompt() {
	label := "add"
	if sh.session.Mode() == types.Editing {
		label = "edit"
	}
	fmt.Fprintf(sh.out, "students(%s)> ", label)
}

func (sh *Shell) list() {
	tbl, err := sh.session.Table()
	if err != nil {
		fmt.Fprintf(sh.out, "error: %v\n", err)
		return
	}

	if tbl.Empty {
		fmt.Fprintln(sh.out, form.Placeholder)
		return
	}

	tw := tabwriter.NewWriter(sh.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tbl.Columns, "\t"))
	for _, row := range tbl.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

func (sh *Shell) show() {
	title := "Add Student"
	draft := sh.session.Draft()
	if sh.session.Mode() == types.Editing && draft.ID != nil {
		title = fmt.Sprintf("Edit Student %d", *draft.ID)
	}
	fmt.Fprintln(sh.out, title)

	errs := sh.session.Errors()
	for _, f := range types.Fields {
		fmt.Fprintf(sh.out, "  %-7s %s\n", f+":", draft.Get(f))
		if msg, ok := errs[f]; ok {
			fmt.Fprintf(sh.out, "          ! %s\n", msg)
		}
	}
}

func (sh *Shell) set(name, value string) error {
	field, ok := types.ParseField(strings.ToLower(strings.TrimSpace(name)))
	if !ok {
		return fmt.Errorf("unknown field %q", name)
	}
	sh.session.ChangeField(field, value)
	return nil
}

func (sh *Shell) attach(path string) error {
	if sh.attachments == nil {
		return errors.New("attachments are disabled")
	}
	if path == "" {
		return errors.New("usage: attach <path>")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	a, err := sh.attachments.Put(filepath.Base(path), data)
	if err != nil {
		return err
	}

	sh.session.ChangeField(types.FieldFile, a.Ref)
	fmt.Fprintf(sh.out, "Attached %s (%s, %d bytes).\n", a.Filename, a.ContentType, a.Size)
	return nil
}

func (sh *Shell) submit() error {
	out, err := sh.session.Submit()

	var verr *form.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintln(sh.out, "Please fix the following:")
		for _, f := range types.Fields {
			if msg, ok := verr.Fields[f]; ok {
				fmt.Fprintf(sh.out, "  %s: %s\n", f, msg)
			}
		}
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(sh.out, "Student %d %s.\n", out.Student.ID, out.Action)
	sh.list()
	return nil
}

func (sh *Shell) delete(ctx context.Context, id int64) error {
	decision, err := sh.session.Delete(ctx, id, sh)
	if err != nil {
		return friendly(err, id)
	}

	if decision == form.Declined {
		fmt.Fprintln(sh.out, "Nothing deleted.")
		return nil
	}

	fmt.Fprintf(sh.out, "Student %d deleted.\n", id)
	sh.list()
	return nil
}

// cut splits off the first word of s.
func cut(s string) (head, tail string) {
	s = strings.TrimSpace(s)
	head, tail, _ = strings.Cut(s, " ")
	return head, strings.TrimSpace(tail)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: must be an integer", s)
	}
	return id, nil
}

func friendly(err error, id int64) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no student with id %d", id)
	}
	return err
}
