package schedule

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sadopc/agentcal/internal/calendar"
)

var ErrInvalidTransition = errors.New("invalid form transition")

// State is the step the add-schedule form is in.
type State int

const (
	Editing State = iota
	Validating
	Confirming
	Committed
	Cancelled
)

var stateNames = map[State]string{
	Editing:    "EDITING",
	Validating: "VALIDATING",
	Confirming: "CONFIRMING",
	Committed:  "COMMITTED",
	Cancelled:  "CANCELLED",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "UNKNOWN"
}

// Field names a draft field that can carry a validation error.
type Field string

const (
	FieldType              Field = "type"
	FieldSchools           Field = "leads"
	FieldDate              Field = "date"
	FieldTime              Field = "time"
	FieldExpenseCategories Field = "expenseCategories"
	FieldExpectedAmount    Field = "expectedAmount"
)

// Fields lists the validated fields in form order.
var Fields = []Field{
	FieldType,
	FieldSchools,
	FieldDate,
	FieldTime,
	FieldExpenseCategories,
	FieldExpectedAmount,
}

// Validation messages.
const (
	MsgTypeRequired      = "Schedule type is required"
	MsgSchoolRequired    = "At least one school must be selected"
	MsgDateRequired      = "Date is required"
	MsgDateFormat        = "Date must be in DD/MM/YYYY format"
	MsgTimeRequired      = "Time is required"
	MsgTimeSlot          = "Time must be one of the available slots"
	MsgCategoryRequired  = "At least one expense category must be selected"
	MsgAmountRequired    = "Expected amount is required"
	MsgAmountNotPositive = "Expected amount must be greater than 0"
)

// Draft is the in-progress form. Id sets are kept sorted.
type Draft struct {
	Type               Type
	SchoolIDs          []int64
	DateLabel          string
	TimeLabel          string
	ExpenseCategoryIDs []int64
	ExpectedAmount     string
	Remarks            string
	Errors             map[Field]string
}

func (d Draft) clone() Draft {
	c := d
	c.SchoolIDs = append([]int64(nil), d.SchoolIDs...)
	c.ExpenseCategoryIDs = append([]int64(nil), d.ExpenseCategoryIDs...)
	c.Errors = make(map[Field]string, len(d.Errors))
	for k, v := range d.Errors {
		c.Errors[k] = v
	}
	return c
}

// IsEmpty reports whether no field has been filled in.
func (d Draft) IsEmpty() bool {
	return d.Type == "" && len(d.SchoolIDs) == 0 && d.DateLabel == "" &&
		d.TimeLabel == "" && len(d.ExpenseCategoryIDs) == 0 &&
		d.ExpectedAmount == "" && d.Remarks == "" && len(d.Errors) == 0
}

// Summary is what the user confirms before the schedule is committed.
type Summary struct {
	Type              Type
	Schools           []string
	DateTimeLabel     string
	ExpenseCategories []string
	ExpectedAmount    Money
	Remarks           string
}

// Workflow drives the add-schedule form: edit, validate, confirm, commit.
// It is owned by one screen and is not safe for concurrent use.
type Workflow struct {
	store      Store
	schools    []Option
	categories []Option
	onCreated  func(Record)
	now        func() time.Time

	state State
	draft Draft
}

func NewWorkflow(store Store, schools, categories []Option) *Workflow {
	return &Workflow{
		store:      store,
		schools:    schools,
		categories: categories,
		now:        time.Now,
		state:      Editing,
		draft:      Draft{Errors: map[Field]string{}},
	}
}

// OnCreated registers the hook called once per committed schedule.
func (w *Workflow) OnCreated(fn func(Record)) {
	w.onCreated = fn
}

// SetCatalog replaces the selectable schools and categories.
func (w *Workflow) SetCatalog(schools, categories []Option) {
	w.schools = schools
	w.categories = categories
}

func (w *Workflow) State() State { return w.state }
func (w *Workflow) Draft() Draft { return w.draft.clone() }
func (w *Workflow) Schools() []Option { return w.schools }
func (w *Workflow) ExpenseCategories() []Option { return w.categories }

// Errors returns a copy of the current field errors.
func (w *Workflow) Errors() map[Field]string {
	return w.draft.clone().Errors
}

func (w *Workflow) editing() bool { return w.state == Editing }

func (w *Workflow) clearError(f Field) {
	delete(w.draft.Errors, f)
}

func (w *Workflow) SetType(t Type) {
	if !w.editing() {
		return
	}
	w.draft.Type = t
	w.clearError(FieldType)
}

func (w *Workflow) SetDateLabel(label string) {
	if !w.editing() {
		return
	}
	w.draft.DateLabel = strings.TrimSpace(label)
	w.clearError(FieldDate)
}

// SetDate fills the date field from a picked calendar day.
func (w *Workflow) SetDate(d calendar.Date) {
	w.SetDateLabel(d.PickerLabel())
}

func (w *Workflow) SetTimeLabel(label string) {
	if !w.editing() {
		return
	}
	w.draft.TimeLabel = strings.TrimSpace(label)
	w.clearError(FieldTime)
}

func (w *Workflow) SetExpectedAmount(s string) {
	if !w.editing() {
		return
	}
	w.draft.ExpectedAmount = strings.TrimSpace(s)
	w.clearError(FieldExpectedAmount)
}

func (w *Workflow) SetRemarks(s string) {
	if !w.editing() {
		return
	}
	w.draft.Remarks = s
}

// ToggleSchool flips id in the school selection and reports whether it is
// now selected. Outside editing it only reports.
func (w *Workflow) ToggleSchool(id int64) bool {
	if !w.editing() {
		return contains(w.draft.SchoolIDs, id)
	}
	var on bool
	w.draft.SchoolIDs, on = toggle(w.draft.SchoolIDs, id)
	w.clearError(FieldSchools)
	return on
}

func (w *Workflow) ToggleExpenseCategory(id int64) bool {
	if !w.editing() {
		return contains(w.draft.ExpenseCategoryIDs, id)
	}
	var on bool
	w.draft.ExpenseCategoryIDs, on = toggle(w.draft.ExpenseCategoryIDs, id)
	w.clearError(FieldExpenseCategories)
	return on
}

// SetSchools replaces the school selection with ids, as a multi-select
// widget reports it.
func (w *Workflow) SetSchools(ids []int64) {
	if !w.editing() {
		return
	}
	w.draft.SchoolIDs = normalizeIDs(ids)
	w.clearError(FieldSchools)
}

func (w *Workflow) SetExpenseCategories(ids []int64) {
	if !w.editing() {
		return
	}
	w.draft.ExpenseCategoryIDs = normalizeIDs(ids)
	w.clearError(FieldExpenseCategories)
}

// Submit validates the draft. With no errors the form moves on to
// confirmation; otherwise it stays in editing with Errors filled in.
func (w *Workflow) Submit() error {
	if w.state != Editing {
		return fmt.Errorf("%w: submit from %s", ErrInvalidTransition, w.state)
	}
	w.state = Validating
	w.draft.Errors = validate(w.draft)
	if len(w.draft.Errors) > 0 {
		w.state = Editing
		return nil
	}
	w.state = Confirming
	return nil
}

// Summary returns the confirmation view of the draft.
func (w *Workflow) Summary() (Summary, error) {
	if w.state != Confirming {
		return Summary{}, fmt.Errorf("%w: summary in %s", ErrInvalidTransition, w.state)
	}
	d, _ := calendar.ParsePickerLabel(w.draft.DateLabel)
	amount, _ := ParseMoney(w.draft.ExpectedAmount)
	return Summary{
		Type:              w.draft.Type,
		Schools:           Names(w.draft.SchoolIDs, w.schools),
		DateTimeLabel:     FormatLabel(d, w.draft.TimeLabel),
		ExpenseCategories: Names(w.draft.ExpenseCategoryIDs, w.categories),
		ExpectedAmount:    amount,
		Remarks:           strings.TrimSpace(w.draft.Remarks),
	}, nil
}

// Confirm commits the draft as a SCHEDULED record and resets the form for
// the next entry. If the store refuses the record the form stays in
// confirmation so the user can retry or go back.
func (w *Workflow) Confirm() (Record, error) {
	if w.state != Confirming {
		return Record{}, fmt.Errorf("%w: confirm from %s", ErrInvalidTransition, w.state)
	}
	r := w.record()
	w.state = Committed
	saved, err := w.store.Append(r)
	if err != nil {
		w.state = Confirming
		return Record{}, fmt.Errorf("append schedule: %w", err)
	}
	if w.onCreated != nil {
		w.onCreated(saved)
	}
	w.reset()
	return saved, nil
}

// CancelConfirmation goes back to editing with the draft intact.
func (w *Workflow) CancelConfirmation() error {
	if w.state != Confirming {
		return fmt.Errorf("%w: cancel confirmation from %s", ErrInvalidTransition, w.state)
	}
	w.state = Editing
	return nil
}

// CancelForm discards the draft and closes the form.
func (w *Workflow) CancelForm() error {
	if w.state != Editing && w.state != Confirming {
		return fmt.Errorf("%w: cancel form from %s", ErrInvalidTransition, w.state)
	}
	w.draft = Draft{Errors: map[Field]string{}}
	w.state = Cancelled
	return nil
}

// Reset reopens the form empty, whatever state it was in.
func (w *Workflow) Reset() {
	w.reset()
}

func (w *Workflow) reset() {
	w.draft = Draft{Errors: map[Field]string{}}
	w.state = Editing
}

func (w *Workflow) record() Record {
	d, _ := calendar.ParsePickerLabel(w.draft.DateLabel)
	amount, _ := ParseMoney(w.draft.ExpectedAmount)
	return Record{
		Type:               w.draft.Type,
		SchoolIDs:          append([]int64(nil), w.draft.SchoolIDs...),
		ExpenseCategoryIDs: append([]int64(nil), w.draft.ExpenseCategoryIDs...),
		ExpectedAmount:     amount,
		Remarks:            strings.TrimSpace(w.draft.Remarks),
		Date:               d,
		TimeLabel:          w.draft.TimeLabel,
		DateTimeLabel:      FormatLabel(d, w.draft.TimeLabel),
		Status:             StatusScheduled,
		CreatedAt:          w.now().UTC(),
	}
}

// validate runs every field check and returns all failures.
func validate(d Draft) map[Field]string {
	errs := map[Field]string{}
	if strings.TrimSpace(string(d.Type)) == "" {
		errs[FieldType] = MsgTypeRequired
	}
	if len(d.SchoolIDs) == 0 {
		errs[FieldSchools] = MsgSchoolRequired
	}
	switch {
	case d.DateLabel == "":
		errs[FieldDate] = MsgDateRequired
	default:
		if _, err := calendar.ParsePickerLabel(d.DateLabel); err != nil {
			errs[FieldDate] = MsgDateFormat
		}
	}
	switch {
	case d.TimeLabel == "":
		errs[FieldTime] = MsgTimeRequired
	case !IsTimeSlot(d.TimeLabel):
		errs[FieldTime] = MsgTimeSlot
	}
	if len(d.ExpenseCategoryIDs) == 0 {
		errs[FieldExpenseCategories] = MsgCategoryRequired
	}
	if d.ExpectedAmount == "" {
		errs[FieldExpectedAmount] = MsgAmountRequired
	} else if m, err := ParseMoney(d.ExpectedAmount); err != nil || m.Cents <= 0 {
		errs[FieldExpectedAmount] = MsgAmountNotPositive
	}
	return errs
}

func contains(ids []int64, id int64) bool {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	return i < len(ids) && ids[i] == id
}

func toggle(ids []int64, id int64) ([]int64, bool) {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	if i < len(ids) && ids[i] == id {
		return append(ids[:i:i], ids[i+1:]...), false
	}
	out := make([]int64, 0, len(ids)+1)
	out = append(out, ids[:i]...)
	out = append(out, id)
	out = append(out, ids[i:]...)
	return out, true
}

func normalizeIDs(ids []int64) []int64 {
	var out []int64
	for _, id := range ids {
		out, _ = toggleOn(out, id)
	}
	return out
}

func toggleOn(ids []int64, id int64) ([]int64, bool) {
	if contains(ids, id) {
		return ids, false
	}
	return toggle(ids, id)
}
