package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/focuslit/internal/models"
	"github.com/julianstephens/focuslit/internal/service"
)

// NewTaskForm creates the form used to add a task.
func NewTaskForm(fm *TaskFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Value(&fm.Description),
			huh.NewInput().
				Title("Points").
				Description("Leave empty for the default").
				Value(&fm.Points).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					i, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return err
					}
					if i < 0 {
						return fmt.Errorf("points cannot be negative")
					}
					return nil
				}),
			huh.NewInput().
				Title("Due date").
				Description("YYYY-MM-DD, optional").
				Value(&fm.Due).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					_, err := models.ParseDay(strings.TrimSpace(s))
					return err
				}),
		),
	)
}

// toNewTask converts a completed form. The form validators have already run.
func (fm TaskFormModel) toNewTask(userID int64) service.NewTask {
	in := service.NewTask{
		UserID:      userID,
		Title:       strings.TrimSpace(fm.Title),
		Description: strings.TrimSpace(fm.Description),
	}
	if p, err := strconv.Atoi(strings.TrimSpace(fm.Points)); err == nil {
		in.Points = &p
	}
	if d, err := models.ParseDay(strings.TrimSpace(fm.Due)); err == nil {
		t := d.Time()
		in.DueDate = &t
	}
	return in
}
