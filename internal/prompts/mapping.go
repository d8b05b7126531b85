package prompts

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/remit/pkg/query"
	"github.com/JaimeStill/remit/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "prompts", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("stage", "Stage").
	Project("instructions", "Instructions").
	Project("description", "Description").
	Project("active", "Active")

var defaultSort = []query.SortField{{Field: "Stage"}, {Field: "Name"}}

// Filters narrows prompt listings. Nil fields are ignored.
type Filters struct {
	Stage  *Stage  `json:"stage,omitempty"`
	Name   *string `json:"name,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

func (f Filters) apply(b *query.Builder) *query.Builder {
	var stage *string
	if f.Stage != nil {
		s := string(*f.Stage)
		stage = &s
	}
	return b.
		WhereEquals("Stage", stage).
		WhereContains("Name", f.Name).
		WhereEquals("Active", f.Active)
}

// FiltersFromQuery reads stage, name and active. Unknown stages are dropped.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if stage, err := ParseStage(values.Get("stage")); err == nil {
		f.Stage = &stage
	}

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if a := values.Get("active"); a != "" {
		if v, err := strconv.ParseBool(a); err == nil {
			f.Active = &v
		}
	}

	return f
}

const returning = "RETURNING id, name, stage, instructions, description, active"

func scanPrompt(s repository.Scanner) (Prompt, error) {
	var (
		p     Prompt
		stage string
	)
	if err := s.Scan(&p.ID, &p.Name, &stage, &p.Instructions, &p.Description, &p.Active); err != nil {
		return Prompt{}, err
	}
	p.Stage = Stage(stage)
	return p, nil
}
