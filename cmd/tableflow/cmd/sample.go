package cmd

import (
	"fmt"

	"github.com/go-drift/tableflow/cmd/tableflow/internal/config"
	"github.com/go-drift/tableflow/pkg/cells"
	"github.com/go-drift/tableflow/pkg/table"
	"github.com/go-drift/tableflow/pkg/terminal"
)

// Site is the model of a site row.
type Site struct {
	Name string
	URL  string
}

var sites = []Site{
	{Name: "Github", URL: "https://github.com"},
	{Name: "Google", URL: "https://google.com"},
	{Name: "Twitter", URL: "https://twitter.com"},
	{Name: "Facebook", URL: "https://facebook.com"},
	{Name: "Youtube", URL: "https://youtube.com"},
}

const sitesSection = "sites"

var siteCell = table.Cell[Site]{
	ReuseKey: "Site",
	NewView:  func() table.View { return terminal.NewView() },
	Configure: func(v table.View, site Site, _ table.Position) {
		if tv, ok := v.(*terminal.View); ok {
			tv.Title = site.Name
			tv.Detail = site.URL
		}
	},
}

// sample wires the sample table into a manager. Messages for the user go to
// notify; selection rows hand their picker to present.
type sample struct {
	surface *terminal.Surface
	manager *table.Manager
	section *table.Section
	notify  func(string)
	present func(*cells.Picker)
	added   int
}

func newSample(cfg *config.Resolved, opts terminal.Options, notify func(string), present func(*cells.Picker)) *sample {
	s := &sample{notify: notify, present: present}
	s.surface = terminal.NewSurface(opts)
	s.manager = table.NewManager(s.surface,
		table.WithAutomaticHeight(cfg.AutomaticHeight),
		table.WithAnimation(cfg.Animation),
	)

	s.section = table.NewSection(sitesSection)
	s.section.HeaderTitle = "Sites"
	s.section.FooterTitle = "Tap a site to open it"
	for _, site := range sites {
		s.section.Add(s.siteRow(site))
	}
	s.section.Add(cells.NewSwitch("Require PC version", true, func(c cells.SwitchConfig) {
		s.say(fmt.Sprintf("%s: %t", c.Title, c.On))
	}))
	s.section.Add(cells.NewSelection("Your age", "19", []string{"18", "19", "20", "21", "22", "23"},
		func(p *cells.Picker) {
			if s.present != nil {
				s.present(p)
			}
		},
		func(d cells.SelectionData) { s.say(d.Selected) },
	))

	s.manager.AddSection(s.section)
	s.manager.Reload()
	return s
}

func (s *sample) siteRow(site Site) *table.Row {
	r := table.NewRow(siteCell, site,
		table.WithID(site.Name),
		table.WithAccessory(table.AccessoryDisclosure),
	)
	r.OnTap(func(*table.Row) table.TapBehavior {
		s.say(site.Name)
		return table.DeselectAnimated
	})
	r.OnEditActions(func(*table.Row) []table.EditAction {
		return []table.EditAction{table.DeleteAction()}
	})
	r.OnDelete(func(r *table.Row) {
		s.manager.Update(true, func() { s.section.RemoveRow(r) })
		s.say("Deleted " + site.Name)
	})
	return r
}

// add appends a new site in an animated session, before the switch and
// selection rows.
func (s *sample) add() {
	s.added++
	site := Site{
		Name: fmt.Sprintf("Site %d", s.added),
		URL:  fmt.Sprintf("https://site%d.example.com", s.added),
	}
	s.manager.Update(true, func() {
		at := 0
		for i, r := range s.section.Rows() {
			if _, ok := table.Model[Site](r); ok {
				at = i + 1
			}
		}
		s.section.Insert(at, s.siteRow(site))
	})
	if _, pos, ok := s.manager.RowWithID(site.Name); ok {
		s.manager.ScrollToRow(pos, table.ScrollNone, true)
	}
	s.say("Added " + site.Name)
}

func (s *sample) say(msg string) {
	if s.notify != nil {
		s.notify(msg)
	}
}

func surfaceOptions(cfg *config.Resolved, height int, color bool) terminal.Options {
	opts := terminal.Options{
		Width:              cfg.Width,
		Height:             height,
		EstimatedRowHeight: cfg.EstimatedRowHeight,
		Separators:         cfg.Separators,
	}
	if color {
		styles := terminal.DefaultStyles()
		opts.Styles = &styles
	}
	return opts
}
