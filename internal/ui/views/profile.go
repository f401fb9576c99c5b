// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/carewell-health/carewell-tui/internal/api"
	"github.com/carewell-health/carewell-tui/internal/model"
	"github.com/carewell-health/carewell-tui/internal/ui/styles"
)

// ProfileService is the slice of the API client the profile form needs.
type ProfileService interface {
	Profile(ctx context.Context) (model.Profile, error)
	UpdateProfile(ctx context.Context, p model.Profile) error
}

// Field order in the form. The response style is a toggle, not an input.
const (
	fieldName = iota
	fieldAge
	fieldGender
	fieldWeight
	fieldConditions
	fieldBirthmarks
	fieldFamilyHistory
	fieldPreviousHistory
	fieldCount
)

type profileLoadedMsg struct {
	gen     int
	profile model.Profile
	err     error
}

type profileSavedMsg struct {
	gen int
	err error
}

// Profile is the health profile form: hydrated from the server on mount,
// saved wholesale on submit.
type Profile struct {
	svc ProfileService

	inputs  []textinput.Model
	style   string
	focus   int
	loading bool
	saving  bool
	errMsg  string
	saved   bool
	gen     int
}

// NewProfile creates the profile form.
func NewProfile(svc ProfileService) *Profile {
	placeholders := []string{
		"Name", "Age", "Gender", "Weight",
		"Health conditions", "Birthmarks",
		"Family medication history", "Previous medication history",
	}
	inputs := make([]textinput.Model, fieldCount)
	for i, p := range placeholders {
		in := textinput.New()
		in.Placeholder = p
		in.CharLimit = 500
		inputs[i] = in
	}
	inputs[fieldName].Focus()

	return &Profile{svc: svc, inputs: inputs, style: model.ResponseStyleConcise}
}

// Mount starts hydration from the server.
func (v *Profile) Mount() tea.Cmd {
	v.gen++
	v.loading = true
	v.saving = false
	v.saved = false
	v.errMsg = ""
	v.focus = fieldName
	for i := range v.inputs {
		v.inputs[i].Blur()
	}
	v.inputs[fieldName].Focus()

	gen, svc := v.gen, v.svc
	return tea.Batch(textinput.Blink, func() tea.Msg {
		p, err := svc.Profile(context.Background())
		return profileLoadedMsg{gen: gen, profile: p, err: err}
	})
}

// Unmount invalidates outstanding completions.
func (v *Profile) Unmount() {
	v.gen++
	v.loading = false
	v.saving = false
}

// hydrate fills the form from a fetched profile.
func (v *Profile) hydrate(p model.Profile) {
	v.inputs[fieldName].SetValue(p.Name)
	if p.Age > 0 {
		v.inputs[fieldAge].SetValue(strconv.Itoa(p.Age))
	}
	v.inputs[fieldGender].SetValue(p.Gender)
	v.inputs[fieldWeight].SetValue(p.Weight)
	v.inputs[fieldConditions].SetValue(p.HealthConditions)
	v.inputs[fieldBirthmarks].SetValue(p.Birthmarks)
	v.inputs[fieldFamilyHistory].SetValue(p.FamilyMedicationHistory)
	v.inputs[fieldPreviousHistory].SetValue(p.PreviousMedicationHistory)
	if p.ResponseStyle != "" {
		v.style = p.ResponseStyle
	}
}

// collect builds the profile to save from the form fields. A non-numeric
// age is sent as zero, which the server treats as unset.
func (v *Profile) collect() model.Profile {
	age, _ := strconv.Atoi(strings.TrimSpace(v.inputs[fieldAge].Value()))
	return model.Profile{
		Name:                      strings.TrimSpace(v.inputs[fieldName].Value()),
		Age:                       age,
		Gender:                    strings.TrimSpace(v.inputs[fieldGender].Value()),
		Weight:                    strings.TrimSpace(v.inputs[fieldWeight].Value()),
		HealthConditions:          strings.TrimSpace(v.inputs[fieldConditions].Value()),
		Birthmarks:                strings.TrimSpace(v.inputs[fieldBirthmarks].Value()),
		FamilyMedicationHistory:   strings.TrimSpace(v.inputs[fieldFamilyHistory].Value()),
		PreviousMedicationHistory: strings.TrimSpace(v.inputs[fieldPreviousHistory].Value()),
		ResponseStyle:             v.style,
	}
}

// save starts the wholesale profile update.
func (v *Profile) save() tea.Cmd {
	if v.saving || v.loading {
		return nil
	}
	v.saving = true
	v.saved = false
	v.errMsg = ""
	gen, svc, p := v.gen, v.svc, v.collect()
	return func() tea.Msg {
		return profileSavedMsg{gen: gen, err: svc.UpdateProfile(context.Background(), p)}
	}
}

// toggleStyle flips between concise and detailed replies.
func (v *Profile) toggleStyle() {
	if v.style == model.ResponseStyleConcise {
		v.style = model.ResponseStyleDetailed
	} else {
		v.style = model.ResponseStyleConcise
	}
}

// Update processes one message.
func (v *Profile) Update(msg tea.Msg) (*Profile, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyTab || msg.Type == tea.KeyDown:
			v.cycleFocus(1)
			return v, nil
		case msg.Type == tea.KeyShiftTab || msg.Type == tea.KeyUp:
			v.cycleFocus(-1)
			return v, nil
		case msg.Type == tea.KeyEnter:
			return v, v.save()
		case msg.String() == "ctrl+t":
			v.toggleStyle()
			return v, nil
		case msg.String() == "ctrl+o":
			return v, func() tea.Msg { return LoggedOutMsg{} }
		}
		var cmd tea.Cmd
		v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
		return v, cmd

	case profileLoadedMsg:
		if msg.gen != v.gen {
			return v, nil
		}
		v.loading = false
		if msg.err != nil {
			// An empty form is still usable; the fetch failure is advisory.
			v.errMsg = api.Normalize(msg.err)
			return v, nil
		}
		v.hydrate(msg.profile)
		return v, nil

	case profileSavedMsg:
		if msg.gen != v.gen {
			return v, nil
		}
		v.saving = false
		if msg.err != nil {
			v.errMsg = api.Normalize(msg.err)
			return v, nil
		}
		v.saved = true
		return v, nil
	}
	return v, nil
}

func (v *Profile) cycleFocus(delta int) {
	v.inputs[v.focus].Blur()
	v.focus = (v.focus + delta + len(v.inputs)) % len(v.inputs)
	v.inputs[v.focus].Focus()
}

// View renders the form.
func (v *Profile) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Health profile"))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString(styles.Meta.Render("Loading profile..."))
		b.WriteString("\n")
	}
	for i := range v.inputs {
		b.WriteString(v.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.Label.Render("Response style: "))
	b.WriteString(v.style)
	b.WriteString("\n")

	if v.saving {
		b.WriteString(styles.Meta.Render("Saving..."))
		b.WriteString("\n")
	}
	if v.saved {
		b.WriteString(styles.SuccessText.Render("Profile saved"))
		b.WriteString("\n")
	}
	if v.errMsg != "" {
		b.WriteString(styles.ErrorText.Render(v.errMsg))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.Help.Render("enter: save  ctrl+t: style  ctrl+o: log out  tab: switch field"))
	return b.String()
}
