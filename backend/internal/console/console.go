// Package console is a line-oriented front end for the editor: one command per
// line in, plain text out.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"castgraph/backend/internal/editor"
	"castgraph/backend/internal/graphview"
	"castgraph/backend/internal/naming"
	"castgraph/backend/internal/roster"
)

const helpText = `commands:
  list                      characters in the current chapter
  graph                     nodes and edges of the current chapter
  next | prev               change chapter
  add                       add a character
  select <id> | unselect    select a character
  name <text>               rename the selected character
  trait <text>              add a characteristic
  untrait <text>            remove a characteristic
  rel <id> <description>    add a relationship to <id>
  unrel <id> <description>  remove a relationship
  targets                   characters a relationship can point at
  delete                    delete the selected character
  suggest                   ask for a name for the selected character
  again                     reject the last suggestion
  refine <text>             ask for a different kind of name
  choose [<n> | <name>]     pick a suggested name: the n-th candidate (default 1) or any name
  last                      show the latest suggestion again
  accept                    rename the character to the chosen name
  help | quit`

// Console reads commands and applies them to an Editor.
type Console struct {
	ed  *editor.Editor
	out io.Writer
}

// New creates a console writing to out.
func New(ed *editor.Editor, out io.Writer) *Console {
	return &Console{ed: ed, out: out}
}

// Run processes commands from in until EOF, "quit" or ctx is done.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	c.prompt()
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if quit := c.Exec(ctx, scanner.Text()); quit {
			return nil
		}
		c.prompt()
	}
	return scanner.Err()
}

func (c *Console) prompt() {
	label := "-"
	if sel, ok := c.ed.Selected(); ok {
		label = sel.Name
	}
	fmt.Fprintf(c.out, "[chapter %d | %s]> ", c.ed.Chapter()+1, label)
}

// Exec runs one command line and reports whether the console should stop.
func (c *Console) Exec(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "":
	case "help":
		fmt.Fprintln(c.out, helpText)
	case "quit", "exit":
		return true
	case "list":
		c.printCharacters(c.ed.Characters())
	case "targets":
		c.printCharacters(c.ed.RelationshipTargets())
	case "graph":
		c.printGraph(c.ed.Graph())
	case "next":
		c.ed.NextChapter()
	case "prev":
		c.ed.PrevChapter()
	case "add":
		ch := c.ed.AddCharacter()
		fmt.Fprintf(c.out, "added %d %s\n", ch.ID, ch.Name)
	case "select":
		id, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintln(c.out, "usage: select <id>")
			return false
		}
		c.ed.Select(roster.ID(id))
	case "unselect":
		c.ed.Select(nil)
	case "name":
		c.ed.SetInputName(arg)
		c.ed.SaveName()
	case "trait":
		c.ed.SetInputCharacteristic(arg)
		c.ed.SaveCharacteristic()
	case "untrait":
		c.ed.RemoveCharacteristic(arg)
	case "rel", "unrel":
		rel, ok := parseRelationship(arg)
		if !ok {
			fmt.Fprintf(c.out, "usage: %s <id> <description>\n", cmd)
			return false
		}
		if cmd == "unrel" {
			c.ed.RemoveRelationship(rel)
			return false
		}
		c.ed.SetRelationshipTarget(roster.ID(rel.ToID))
		c.ed.SetRelationshipDescription(rel.Description)
		c.ed.SaveRelationship()
	case "delete":
		c.ed.DeleteSelected()
	case "suggest":
		c.report(c.ed.StartNaming(ctx))
	case "again":
		c.report(c.ed.RejectSuggestion(ctx))
	case "refine":
		c.ed.SetRefinePrompt(arg)
		c.report(c.ed.RefineWithPrompt(ctx))
	case "choose":
		name, ok := c.pickCandidate(arg)
		if !ok {
			fmt.Fprintln(c.out, "no such candidate")
			return false
		}
		c.ed.ChooseSuggestion(name)
		fmt.Fprintf(c.out, "chose %s\n", name)
	case "last":
		if reply, ok := c.ed.LastSuggestion(); ok {
			c.report(reply, nil)
		}
	case "accept":
		if c.ed.AcceptSuggestion() {
			fmt.Fprintf(c.out, "renamed to %s\n", c.ed.ChosenName())
		}
	default:
		fmt.Fprintf(c.out, "unknown command %q, try help\n", cmd)
	}
	return false
}

// pickCandidate resolves a choose argument against the latest suggestion.
// Anything that is not a candidate number is taken as a literal name.
func (c *Console) pickCandidate(arg string) (string, bool) {
	n := 1
	if arg != "" {
		parsed, err := strconv.Atoi(arg)
		if err != nil {
			return arg, true
		}
		n = parsed
	}
	reply, ok := c.ed.LastSuggestion()
	if !ok {
		return "", false
	}
	names := naming.Candidates(reply)
	if n < 1 || n > len(names) {
		return "", false
	}
	return names[n-1], true
}

func parseRelationship(arg string) (roster.Relationship, bool) {
	idText, desc, _ := strings.Cut(arg, " ")
	id, err := strconv.Atoi(idText)
	if err != nil {
		return roster.Relationship{}, false
	}
	return roster.Relationship{ToID: id, Description: strings.TrimSpace(desc)}, true
}

func (c *Console) report(reply string, err error) {
	switch {
	case errors.Is(err, naming.ErrRequestPending):
		fmt.Fprintln(c.out, "still waiting for the previous suggestion")
	case err != nil:
		fmt.Fprintln(c.out, "no suggestion produced")
	case reply == "":
		// nothing selected
	default:
		fmt.Fprintln(c.out, reply)
		if names := naming.Candidates(reply); len(names) > 0 {
			fmt.Fprintf(c.out, "candidates: %s\n", strings.Join(names, ", "))
		}
	}
}

func (c *Console) printCharacters(cs []roster.Character) {
	all := c.ed.Characters()
	for _, ch := range cs {
		fmt.Fprintf(c.out, "%d %s\n", ch.ID, ch.Name)
		for _, trait := range ch.Characteristics {
			fmt.Fprintf(c.out, "    - %s\n", trait)
		}
		for _, rel := range ch.Relationships {
			target := "?"
			for _, other := range all {
				if other.ID == rel.ToID {
					target = other.Name
				}
			}
			fmt.Fprintf(c.out, "    -> %s %s\n", target, rel.Description)
		}
	}
}

func (c *Console) printGraph(g graphview.Graph) {
	for _, n := range g.Nodes {
		fmt.Fprintf(c.out, "(%d %s)\n", n.ID, n.Label)
	}
	for _, e := range g.Edges {
		fmt.Fprintf(c.out, "(%d)-[%s]->(%d)\n", e.From, e.Label, e.To)
	}
}
