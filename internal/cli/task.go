package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/foxlist/internal/deadline"
	"github.com/dmitrijs2005/foxlist/internal/models"
	"github.com/dmitrijs2005/foxlist/internal/query"
	"github.com/dmitrijs2005/foxlist/internal/tasks"
)

// parsePriority maps user input (token or 1-3 shortcut) to a stored
// priority.
func parsePriority(s string) (models.Priority, bool) {
	switch strings.ToLower(s) {
	case "alta", "high", "3":
		return models.PriorityHigh, true
	case "media", "medium", "2", "":
		return models.PriorityMedium, true
	case "baixa", "low", "1":
		return models.PriorityLow, true
	}
	return "", false
}

func parseID(args []string) (int64, bool) {
	if len(args) == 0 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Add creates a task owned by the current user.
func (a *App) Add(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Println("Sign in first.")
		return nil
	}

	title, err := GetSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}
	if title == "" {
		fmt.Println("Title is required.")
		return nil
	}
	description, err := GetSimpleText(a.reader, "Description (optional)", os.Stdout)
	if err != nil {
		return err
	}
	prioInput, err := GetSimpleText(a.reader, "Priority: alta/media/baixa (default media)", os.Stdout)
	if err != nil {
		return err
	}
	priority, ok := parsePriority(prioInput)
	if !ok {
		fmt.Println("Unknown priority:", prioInput)
		return nil
	}
	due, err := GetSimpleText(a.reader, "Deadline YYYY-MM-DD (empty for none)", os.Stdout)
	if err != nil {
		return err
	}
	if due != "" {
		if _, ok := deadline.ParseDate(due); !ok {
			fmt.Println("Data inválida")
			return nil
		}
	}

	email := a.currentEmail()
	t, err := a.store.Create(ctx, tasks.CreateParams{
		Title:       title,
		Description: description,
		Priority:    priority,
		Deadline:    due,
		OwnerEmail:  &email,
	})
	if err != nil {
		fmt.Println("Could not create task:", err)
		return err
	}

	fmt.Printf("Created task #%d.\n", t.ID)
	return nil
}

// parseListArgs reads optional completion filter, sort key and search
// text from the list arguments, in any order.
func parseListArgs(args []string) query.Params {
	p := query.Params{Completion: query.FilterAll, Sort: query.SortRecency}

	var search []string
	for _, arg := range args {
		switch strings.ToLower(arg) {
		case "all":
			p.Completion = query.FilterAll
		case "pending":
			p.Completion = query.FilterPending
		case "completed":
			p.Completion = query.FilterCompleted
		case "recency":
			p.Sort = query.SortRecency
		case "priority":
			p.Sort = query.SortPriority
		default:
			search = append(search, arg)
		}
	}
	p.Search = strings.Join(search, " ")
	return p
}

func renderRow(t *models.Task, now time.Time) string {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	alert := deadline.Classify(t.Deadline, now)

	line := fmt.Sprintf("%s #%d %s (%s)", check, t.ID, t.Title, t.Priority)
	if alert.Icon != "" {
		line += " " + alert.Icon
	}
	return line + " — " + alert.Message
}

// List shows the current user's tasks, filtered and sorted per args.
func (a *App) List(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		fmt.Println("Sign in first.")
		return nil
	}

	items, err := a.store.GetAll(ctx, a.currentEmail())
	if err != nil {
		fmt.Println("Could not list tasks:", err)
		return err
	}

	view := query.Apply(items, parseListArgs(args))
	if len(view) == 0 {
		fmt.Println("No tasks.")
		return nil
	}

	now := time.Now()
	for i := range view {
		fmt.Println(renderRow(&view[i], now))
	}
	return nil
}

// Show prints one task in full.
func (a *App) Show(ctx context.Context, args []string) error {
	id, ok := parseID(args)
	if !ok {
		fmt.Println("Usage: show <id>")
		return nil
	}

	t, err := a.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, tasks.ErrNotFound) {
			fmt.Println("No such task.")
			return nil
		}
		fmt.Println("Could not load task:", err)
		return err
	}

	now := time.Now()
	alert := deadline.Classify(t.Deadline, now)

	fmt.Println(renderRow(t, now))
	if t.Description != "" {
		fmt.Println("  ", t.Description)
	}
	fmt.Println("   Prazo:", t.Deadline, "—", alert.Message)
	fmt.Println("   Criada em:", deadline.FormatDateTime(t.CreatedAt.Local()))
	fmt.Println("   Atualizada em:", deadline.FormatDateTime(t.UpdatedAt.Local()))
	return nil
}

// Edit rewrites a task's fields, prefilled with the current values.
// An emptied description stays empty: updates replace, they do not
// merge.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, ok := parseID(args)
	if !ok {
		fmt.Println("Usage: edit <id>")
		return nil
	}

	t, err := a.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, tasks.ErrNotFound) {
			fmt.Println("No such task.")
			return nil
		}
		return err
	}

	title, err := GetOptionalText(a.reader, "Title", t.Title, os.Stdout)
	if err != nil {
		return err
	}
	if title == "" {
		fmt.Println("Title is required.")
		return nil
	}
	description, err := GetSimpleText(a.reader,
		fmt.Sprintf("Description (was %q, empty clears)", t.Description), os.Stdout)
	if err != nil {
		return err
	}
	prioInput, err := GetOptionalText(a.reader, "Priority", string(t.Priority), os.Stdout)
	if err != nil {
		return err
	}
	priority, ok := parsePriority(prioInput)
	if !ok {
		fmt.Println("Unknown priority:", prioInput)
		return nil
	}
	due, err := GetSimpleText(a.reader,
		fmt.Sprintf("Deadline YYYY-MM-DD (was %q, empty for none)", t.Deadline), os.Stdout)
	if err != nil {
		return err
	}
	if due != "" {
		if _, ok := deadline.ParseDate(due); !ok {
			fmt.Println("Data inválida")
			return nil
		}
	}

	err = a.store.Update(ctx, id, tasks.UpdateParams{
		Title:       title,
		Description: description,
		Priority:    priority,
		Deadline:    due,
		Completed:   t.Completed,
	})
	if err != nil {
		fmt.Println("Could not update task:", err)
		return err
	}

	fmt.Printf("Updated task #%d.\n", id)
	return nil
}

func (a *App) setCompletion(ctx context.Context, args []string, completed bool) error {
	id, ok := parseID(args)
	if !ok {
		fmt.Println("Usage: done|undo <id>")
		return nil
	}

	if err := a.store.ToggleCompletion(ctx, id, completed); err != nil {
		fmt.Println("Could not update task:", err)
		return err
	}
	if completed {
		fmt.Printf("Task #%d completed.\n", id)
	} else {
		fmt.Printf("Task #%d reopened.\n", id)
	}
	return nil
}

// Done marks a task completed.
func (a *App) Done(ctx context.Context, args []string) error {
	return a.setCompletion(ctx, args, true)
}

// Undo reopens a completed task.
func (a *App) Undo(ctx context.Context, args []string) error {
	return a.setCompletion(ctx, args, false)
}

// Delete removes a task. Deleting an unknown id is quietly accepted,
// matching the store contract.
func (a *App) Delete(ctx context.Context, args []string) error {
	id, ok := parseID(args)
	if !ok {
		fmt.Println("Usage: delete <id>")
		return nil
	}

	if err := a.store.Delete(ctx, id); err != nil {
		fmt.Println("Could not delete task:", err)
		return err
	}
	fmt.Printf("Deleted task #%d.\n", id)
	return nil
}

// Count prints the total number of stored tasks.
func (a *App) Count(ctx context.Context) error {
	n, err := a.store.Count(ctx)
	if err != nil {
		fmt.Println("Could not count tasks:", err)
		return err
	}
	fmt.Printf("%d task(s) stored.\n", n)
	return nil
}
