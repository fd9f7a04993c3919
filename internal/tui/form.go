package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/BolkaZ/Tracker/internal/models"
	"github.com/BolkaZ/Tracker/internal/validation"
)

type TrackerFormModel struct {
	Title    string
	Category string
	Emoji    string
	Color    string
	Days     []models.Weekday
	Pinned   bool
}

func newTrackerFormModel(category string) *TrackerFormModel {
	return &TrackerFormModel{
		Category: category,
		Emoji:    "⭐",
		Color:    "5B8DEF",
	}
}

// Tracker builds the tracker described by the form.
func (f *TrackerFormModel) Tracker() models.Tracker {
	return models.Tracker{
		Title:    f.Title,
		Emoji:    f.Emoji,
		ColorHex: f.Color,
		Schedule: models.NewSchedule(f.Days...),
		IsPinned: f.Pinned,
	}
}

// NewTrackerForm creates the add tracker form. Leaving every weekday
// unselected creates an irregular event.
func NewTrackerForm(fm *TrackerFormModel) *huh.Form {
	weekdays := make([]huh.Option[models.Weekday], 0, 7)
	for _, wd := range models.AllWeekdays() {
		weekdays = append(weekdays, huh.NewOption(wd.String(), wd))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(validation.ValidateTitle),
			huh.NewInput().
				Title("Category").
				Description("Created if it does not exist").
				Value(&fm.Category).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("category is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Emoji").
				Value(&fm.Emoji).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return validation.ErrInvalidEmoji
					}
					return nil
				}),
			huh.NewInput().
				Title("Color (RRGGBB)").
				Value(&fm.Color).
				Validate(validation.ValidateColor),
		),
		huh.NewGroup(
			huh.NewMultiSelect[models.Weekday]().
				Title("Weekdays").
				Description("Select none for an irregular event").
				Options(weekdays...).
				Value(&fm.Days),
			huh.NewConfirm().
				Title("Pin this tracker?").
				Value(&fm.Pinned),
		),
	)
}
