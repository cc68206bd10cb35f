package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/casierfr/console/pkg/app"
	"github.com/casierfr/console/pkg/form"
)

// fieldSpec declares one detail-form field.
type fieldSpec struct {
	id     string
	label  string
	choice bool
}

// orderFields is the detail form layout. Choice fields are hydrated from the
// reference catalog once the form opens.
var orderFields = []fieldSpec{
	{"N_CLIENT", "N° client", false},
	{"NOM_CLIENT", "Client", false},
	{"CONTACT", "Contact", false},
	{"PAYS", "Pays", true},
	{"STATUT", "Statut", true},
	{"GAMME", "Gamme", true},
	{"DATE_PLANNING", "Planning", false},
	{"DATE_LIVRAISON", "Livraison", false},
	{"MONTANT_HT", "Montant HT", false},
	{"BORNE_DE_COMMANDE", "Borne de commande", true},
	{"REF_BDC", "Réf. borne", false},
	{"RAL_BDC", "RAL borne", true},
	{"KIT_CODE_BARRES", "Kit code-barres", true},
	{"BATIMENT_MODULAIRE", "Bâtiment modulaire", true},
	{"REF_MODULE", "Réf. module", false},
	{"RAL_MODULE", "RAL module", true},
	{"NB_MODULES", "Nb modules", false},
	{"MARKETING", "Marketing", true},
	{"SUPPORT_MARKETING", "Support marketing", false},
	{"DATE_MARKETING", "Date marketing", false},
	{"EPAPER", "E-paper", true},
	{"QTE_EPAPER", "Qté e-paper", false},
	{"STATUT_EPAPER", "Statut e-paper", true},
}

type formHydratedMsg struct {
	options map[string][]string
	values  map[string]string
}

// orderForm is the detail-form overlay state.
type orderForm struct {
	svc *app.Service
	log *zap.Logger

	id     string
	fields *form.Form
	opened map[string]string
	index  int

	input   textinput.Model
	editing bool
}

// newOrderForm builds the overlay for a record and starts hydration in the
// background.
func newOrderForm(svc *app.Service, id string, values map[string]string, log *zap.Logger) (*orderForm, tea.Cmd) {
	fields := make([]form.Field, 0, len(orderFields))
	for _, spec := range orderFields {
		// Everything starts as text; hydration converts the choice fields
		// once their option lists arrive.
		fields = append(fields, form.Field{
			ID:    spec.id,
			Name:  spec.label,
			Kind:  form.Text,
			Value: values[spec.id],
		})
	}
	f := form.New(fields...)

	ti := textinput.New()
	ti.CharLimit = 128
	ti.Prompt = ""

	opened := make(map[string]string, len(values))
	for k, v := range values {
		opened[k] = v
	}
	of := &orderForm{svc: svc, log: log, id: id, fields: f, opened: opened, input: ti}
	return of, of.hydrate(values)
}

// hydrate resolves the choice options off the UI loop and reports them back
// as a message, so the model never blocks on the network.
func (of *orderForm) hydrate(values map[string]string) tea.Cmd {
	svc := of.svc
	return func() tea.Msg {
		shadow := make([]form.Field, 0, len(orderFields))
		for _, spec := range orderFields {
			kind := form.Text
			if spec.choice {
				kind = form.Choice
			}
			fld := form.Field{ID: spec.id, Name: spec.label, Value: values[spec.id]}
			shadow = append(shadow, form.Materialize(fld, kind))
		}
		sf := form.New(shadow...)

		h := &form.Hydrator{Catalog: svc.Catalog, Recompute: form.ApplyConditionalGroups}
		_ = h.HydrateAll(context.Background(), sf, false)

		options := map[string][]string{}
		vals := map[string]string{}
		for _, fld := range sf.Fields() {
			if fld.Kind == form.Choice {
				options[fld.ID] = fld.Options
			}
			vals[fld.ID] = fld.Value
		}
		return formHydratedMsg{options: options, values: vals}
	}
}

// applyHydration installs the resolved choice lists on the live form. A value
// the operator committed while the options were loading wins over the one the
// hydration started from, and is re-inserted as an option when the reference
// list does not carry it.
func (of *orderForm) applyHydration(msg formHydratedMsg) {
	for id, opts := range msg.options {
		fld := of.fields.Get(id)
		if fld == nil {
			continue
		}
		live := fld.Value
		converted := form.Materialize(*fld, form.Choice)
		converted.Options = opts
		converted.Value = msg.values[id]
		if live != of.opened[id] {
			converted.Value = live
		}
		if v := converted.Value; v != "" && !hasOption(opts, v) {
			converted.Options = append(append([]string(nil), opts...), v)
		}
		// Same-kind conversion drops the stash the first one made.
		of.fields.Set(form.Materialize(converted, form.Choice))
	}
	form.ApplyConditionalGroups(of.fields)
}

func hasOption(opts []string, v string) bool {
	for _, o := range opts {
		if o == v {
			return true
		}
	}
	return false
}

func (of *orderForm) visibleIDs() []string {
	var out []string
	for _, fld := range of.fields.Fields() {
		if !fld.Hidden {
			out = append(out, fld.ID)
		}
	}
	return out
}

func (of *orderForm) current() *form.Field {
	ids := of.visibleIDs()
	if len(ids) == 0 {
		return nil
	}
	if of.index >= len(ids) {
		of.index = len(ids) - 1
	}
	return of.fields.Get(ids[of.index])
}

func (of *orderForm) move(delta int) {
	ids := of.visibleIDs()
	if len(ids) == 0 {
		return
	}
	of.index = (of.index + delta + len(ids)) % len(ids)
}

// cycleChoice steps the active choice field through its options.
func (of *orderForm) cycleChoice(fld *form.Field, delta int) {
	if len(fld.Options) == 0 || fld.Disabled {
		return
	}
	cur := 0
	for i, o := range fld.Options {
		if o == fld.Value {
			cur = i
			break
		}
	}
	next := (cur + delta + len(fld.Options)) % len(fld.Options)
	v := fld.Options[next]
	if v == form.Placeholder {
		v = ""
	}
	if v != fld.Value {
		fld.Value = v
		of.afterChange()
	}
}

// afterChange re-derives the dependent state once a value moved.
func (of *orderForm) afterChange() {
	of.svc.Tracker.MarkDirty()
	form.ApplyConditionalGroups(of.fields)

	vals := of.fields.Values()
	if strings.EqualFold(vals["EPAPER"], "OUI") {
		if qty := form.EpaperQty(vals); qty > 0 {
			of.fields.SetValue("QTE_EPAPER", strconv.Itoa(qty))
		}
	}
	if vals["DATE_LIVRAISON"] == "" {
		planning := form.NormalizeDDMMYYYY(vals["DATE_PLANNING"])
		if t, err := time.Parse("02/01/2006", planning); err == nil {
			est := form.DeliveryEstimate(t, vals["RAL_MODULE"], vals["RAL_BDC"], vals["BORNE_DE_COMMANDE"])
			of.fields.SetValue("DATE_LIVRAISON", form.FormatDDMMYYYY(est))
		}
	}
}

func (of *orderForm) save() tea.Cmd {
	values := of.fields.Values()
	svc := of.svc
	return func() tea.Msg {
		outcome, err := svc.SaveOrder(context.Background(), values)
		if err != nil {
			return errMsg{err}
		}
		return orderSavedMsg{outcome: outcome}
	}
}

// handleKey processes one key press. done reports that the form closed
// without saving.
func (of *orderForm) handleKey(msg tea.KeyPressMsg) (done bool, cmd tea.Cmd) {
	if of.editing {
		switch msg.String() {
		case "enter":
			fld := of.current()
			if fld != nil && fld.Value != of.input.Value() {
				fld.Value = of.input.Value()
				of.afterChange()
			}
			of.editing = false
			of.input.Blur()
		case "esc":
			of.editing = false
			of.input.Reset()
			of.input.Blur()
		default:
			var c tea.Cmd
			of.input, c = of.input.Update(msg)
			return false, c
		}
		return false, nil
	}

	switch msg.String() {
	case "esc":
		of.svc.CloseOrder()
		return true, nil
	case "ctrl+s":
		return false, of.save()
	case "up", "k":
		of.move(-1)
	case "down", "j", "tab":
		of.move(1)
	case "left", "h":
		if fld := of.current(); fld != nil && fld.Kind == form.Choice {
			of.cycleChoice(fld, -1)
		}
	case "right", "l":
		if fld := of.current(); fld != nil && fld.Kind == form.Choice {
			of.cycleChoice(fld, 1)
		}
	case "enter", "i":
		fld := of.current()
		if fld != nil && fld.Kind == form.Text && !fld.Disabled {
			of.editing = true
			of.input.SetValue(fld.Value)
			of.input.CursorEnd()
			var cmds []tea.Cmd
			if c := of.input.Focus(); c != nil {
				cmds = append(cmds, c)
			}
			cmds = append(cmds, textinput.Blink)
			return false, tea.Batch(cmds...)
		}
	}
	return false, nil
}

// View renders the form overlay.
func (of *orderForm) View() string {
	title := "Nouvelle commande"
	if of.id != "" {
		title = "Commande " + of.id
	}
	if of.svc.Tracker.Dirty() {
		title += " *"
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Underline(true).Render(title))
	b.WriteString("\n\n")

	ids := of.visibleIDs()
	for i, id := range ids {
		fld := of.fields.Get(id)
		cursor := "  "
		if i == of.index {
			cursor = "→ "
		}
		value := fld.Value
		if i == of.index && of.editing {
			value = of.input.View()
		} else if fld.Kind == form.Choice {
			if value == "" {
				value = form.Placeholder
			}
			value = "‹ " + value + " ›"
		}
		line := fmt.Sprintf("%s%-20s %s", cursor, fld.Name, value)
		if fld.Disabled {
			line = lipgloss.NewStyle().Faint(true).Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	help := "↑/↓ champ, ←/→ choix, entrée éditer, ctrl+s enregistrer, esc fermer"
	b.WriteString("\n" + lipgloss.NewStyle().Italic(true).Render(help))
	return b.String()
}
