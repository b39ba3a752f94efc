package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Message roles in a coach transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Weekdays is the display order of days in a meal plan.
var Weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// MealSlots is the display order of slots within a day.
var MealSlots = []string{"Breakfast", "Lunch", "Dinner", "Snack"}

// User is the profile returned by login, registration and /api/me.
type User struct {
	UID           string        `json:"uid,omitempty"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	HealthDetails HealthDetails `json:"healthDetails"`
}

// HealthDetails is the nested health record of a user.
type HealthDetails struct {
	Age            Measure   `json:"age,omitempty"`
	Gender         string    `json:"gender,omitempty"`
	Height         Measure   `json:"height,omitempty"`
	Weight         Measure   `json:"weight,omitempty"`
	DietPreference string    `json:"dietPreference,omitempty"`
	Goal           string    `json:"goal,omitempty"`
	ActivityLevel  string    `json:"activityLevel,omitempty"`
	Allergies      Allergies `json:"allergies,omitempty"`
}

// Measure is a numeric profile field the server stores as whatever the form
// sent: a JSON number or a string.
type Measure string

// UnmarshalJSON accepts a string, a number or null.
func (m *Measure) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = Measure(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("measure must be a number or string: %w", err)
	}
	*m = Measure(n.String())
	return nil
}

// Float returns the numeric value, or false when the field is empty or not a
// number.
func (m Measure) Float() (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(m)), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Allergies is a list of allergens. The server keeps them as one
// comma-separated string; lists are accepted too.
type Allergies []string

// UnmarshalJSON accepts a comma-separated string, a list of strings or null.
func (a *Allergies) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = nil
		return nil
	case len(data) > 0 && data[0] == '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*a = ParseAllergies(strings.Join(list, ","))
		return nil
	default:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("allergies must be a string or list: %w", err)
		}
		*a = ParseAllergies(s)
		return nil
	}
}

// MarshalJSON encodes the list in the server's comma-separated form.
func (a Allergies) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a Allergies) String() string {
	return strings.Join(a, ", ")
}

// ParseAllergies splits a comma-separated allergy list, dropping blanks.
func ParseAllergies(s string) Allergies {
	var out Allergies
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// RegisterRequest is the body of POST /api/auth/register. Profile and health
// fields are flat on the wire.
type RegisterRequest struct {
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Password       string    `json:"password"`
	Age            string    `json:"age"`
	Gender         string    `json:"gender"`
	Height         string    `json:"height"`
	Weight         string    `json:"weight"`
	DietPreference string    `json:"dietPreference"`
	Goal           string    `json:"goal"`
	ActivityLevel  string    `json:"activityLevel"`
	Allergies      Allergies `json:"allergies"`
}

// Meal is one meal-slot record of a plan.
type Meal struct {
	Name        string  `json:"name"`
	Ingredients string  `json:"ingredients"`
	PortionSize string  `json:"portionSize"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
}

// UnmarshalJSON tolerates numeric fields sent as strings ("300", "12g").
func (m *Meal) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name        string    `json:"name"`
		Ingredients string    `json:"ingredients"`
		PortionSize string    `json:"portionSize"`
		Calories    flexFloat `json:"calories"`
		Protein     flexFloat `json:"protein"`
		Carbs       flexFloat `json:"carbs"`
		Fat         flexFloat `json:"fat"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Meal{
		Name:        raw.Name,
		Ingredients: raw.Ingredients,
		PortionSize: raw.PortionSize,
		Calories:    float64(raw.Calories),
		Protein:     float64(raw.Protein),
		Carbs:       float64(raw.Carbs),
		Fat:         float64(raw.Fat),
	}
	return nil
}

type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(strings.TrimRightFunc(s, func(r rune) bool {
			return (r < '0' || r > '9') && r != '.'
		}))
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", s, err)
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// DayPlan maps a meal slot (Breakfast, Lunch, ...) to its meal.
type DayPlan map[string]Meal

// Slots returns the slots present on the day, MealSlots first in order, then
// any other slots sorted.
func (d DayPlan) Slots() []string {
	var out []string
	for _, s := range MealSlots {
		if _, ok := d[s]; ok {
			out = append(out, s)
		}
	}
	var extra []string
	for s := range d {
		if !slices.Contains(MealSlots, s) {
			extra = append(extra, s)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// MealPlan maps a weekday name to that day's slots.
type MealPlan map[string]DayPlan

// Totals is the macro sum over a day's meals.
type Totals struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}

// DailyTotals sums calories, protein, carbs and fat over the slots present on
// day. A missing day yields zero totals.
func (p MealPlan) DailyTotals(day string) Totals {
	var t Totals
	for _, meal := range p[day] {
		t.Calories += meal.Calories
		t.Protein += meal.Protein
		t.Carbs += meal.Carbs
		t.Fat += meal.Fat
	}
	return t
}

// Days returns the days present in the plan, weekdays first in calendar
// order, then any other keys sorted.
func (p MealPlan) Days() []string {
	var days []string
	seen := make(map[string]bool, len(p))
	for _, d := range Weekdays {
		if _, ok := p[d]; ok {
			days = append(days, d)
			seen[d] = true
		}
	}
	var extra []string
	for d := range p {
		if !seen[d] {
			extra = append(extra, d)
		}
	}
	sort.Strings(extra)
	return append(days, extra...)
}

// Clone returns a deep copy of the plan.
func (p MealPlan) Clone() MealPlan {
	if p == nil {
		return nil
	}
	out := make(MealPlan, len(p))
	for day, slots := range p {
		c := make(DayPlan, len(slots))
		for slot, meal := range slots {
			c[slot] = meal
		}
		out[day] = c
	}
	return out
}

// GroceryList collects the distinct ingredients of every meal in English
// collation order, ignoring case. Ingredients are comma-separated; duplicates compare
// case-insensitively and the first spelling in display order wins.
func (p MealPlan) GroceryList() []string {
	fold := cases.Fold()
	seen := make(map[string]bool)
	var items []string
	for _, day := range p.Days() {
		for _, slot := range p[day].Slots() {
			for _, part := range strings.Split(p[day][slot].Ingredients, ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				key := fold.String(part)
				if seen[key] {
					continue
				}
				seen[key] = true
				items = append(items, part)
			}
		}
	}
	collate.New(language.English, collate.IgnoreCase).SortStrings(items)
	return items
}

// FoodSummary is one search hit.
type FoodSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Brand    string `json:"brand,omitempty"`
	DataType string `json:"dataType,omitempty"`
}

// Nutrients is the detailed nutrient record of one food, per 100 g.
type Nutrients struct {
	Calories       float64           `json:"calories"`
	Protein        float64           `json:"protein"`
	Carbs          float64           `json:"carbs"`
	Fat            float64           `json:"fat"`
	Fiber          float64           `json:"fiber"`
	Micronutrients map[string]string `json:"micronutrients,omitempty"`
}

// FoodDetail is the response of GET /api/nutrition/food/:id.
type FoodDetail struct {
	FdcID     int64     `json:"fdcId"`
	Name      string    `json:"name"`
	Brand     string    `json:"brand,omitempty"`
	Nutrients Nutrients `json:"nutrients"`
}

// ScanResult is the barcode scan payload. Its shape is owned by the server.
type ScanResult map[string]interface{}

// Message is one chat transcript entry.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
