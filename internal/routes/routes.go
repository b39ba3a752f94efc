// Package routes is the client route table and the guard that keeps signed-out
// users away from protected pages.
package routes

import "strings"

// Paths of every known route.
const (
	Landing     = "/"
	Login       = "/login"
	Register    = "/register"
	Dashboard   = "/dashboard"
	MealPlanner = "/meal-planner"
	Insights    = "/insights"
	Coach       = "/coach"
	Profile     = "/profile"
)

// Page identifies the view rendered for a route.
type Page int

const (
	PageNotFound Page = iota
	PageLanding
	PageLogin
	PageRegister
	PageDashboard
	PageMealPlanner
	PageInsights
	PageCoach
	PageProfile
)

var pageNames = [...]string{
	PageNotFound:    "not-found",
	PageLanding:     "landing",
	PageLogin:       "login",
	PageRegister:    "register",
	PageDashboard:   "dashboard",
	PageMealPlanner: "meal-planner",
	PageInsights:    "insights",
	PageCoach:       "coach",
	PageProfile:     "profile",
}

func (p Page) String() string {
	if p < 0 || int(p) >= len(pageNames) {
		return "unknown"
	}
	return pageNames[p]
}

// Route is one entry of the route table.
type Route struct {
	Path      string
	Page      Page
	Title     string
	Protected bool
}

var table = []Route{
	{Path: Landing, Page: PageLanding, Title: "Welcome"},
	{Path: Login, Page: PageLogin, Title: "Login"},
	{Path: Register, Page: PageRegister, Title: "Register"},
	{Path: Dashboard, Page: PageDashboard, Title: "Dashboard", Protected: true},
	{Path: MealPlanner, Page: PageMealPlanner, Title: "Meal Planner", Protected: true},
	{Path: Insights, Page: PageInsights, Title: "Nutrition Insights", Protected: true},
	{Path: Coach, Page: PageCoach, Title: "Virtual Coach", Protected: true},
	{Path: Profile, Page: PageProfile, Title: "Profile", Protected: true},
}

// All returns the route table in display order.
func All() []Route {
	out := make([]Route, len(table))
	copy(out, table)
	return out
}

// Navigation returns the protected routes, the ones shown in the nav bar.
func Navigation() []Route {
	var out []Route
	for _, r := range table {
		if r.Protected {
			out = append(out, r)
		}
	}
	return out
}

// Resolve maps a path to its route. A trailing slash is ignored. Unknown
// paths resolve to a public not-found route that keeps the requested path.
func Resolve(path string) Route {
	clean := path
	if len(clean) > 1 {
		clean = strings.TrimRight(clean, "/")
		if clean == "" {
			clean = Landing
		}
	}
	for _, r := range table {
		if r.Path == clean {
			return r
		}
	}
	return Route{Path: path, Page: PageNotFound, Title: "Page Not Found"}
}

// Decision is the outcome of Guard.
type Decision struct {
	// Allow is true when the route may be rendered.
	Allow bool
	// Redirect is the path to go to instead when Allow is false.
	Redirect string
	// From is the originally requested path, carried to the login page so the
	// user can be returned there afterwards.
	From string
}

// Guard decides whether route may be shown given the authentication flag.
// Protected routes redirect signed-out users to the login page.
func Guard(route Route, authenticated bool) Decision {
	if !route.Protected || authenticated {
		return Decision{Allow: true}
	}
	return Decision{Redirect: Login, From: route.Path}
}

// AfterLogin returns where to go once signed in: from when it names a known
// route other than the auth pages, else the dashboard.
func AfterLogin(from string) string {
	if from == "" {
		return Dashboard
	}
	r := Resolve(from)
	switch r.Page {
	case PageNotFound, PageLogin, PageRegister:
		return Dashboard
	}
	return r.Path
}
