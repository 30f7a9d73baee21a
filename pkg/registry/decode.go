package registry

import (
	"fmt"

	"github.com/aretw0/nova/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// document is the raw YAML shape. Steps stay generic maps until mapstructure
// turns them into records, so unknown keys can be reported per step.
type document struct {
	Steps []map[string]any `yaml:"steps"`
}

type stepRecord struct {
	Name    string         `mapstructure:"name"`
	Text    string         `mapstructure:"text"`
	Options []optionRecord `mapstructure:"options"`
}

// optionRecord carries exactly one action key.
type optionRecord struct {
	Label    string `mapstructure:"label"`
	Icon     string `mapstructure:"icon"`
	Go       string `mapstructure:"go"`
	Back     bool   `mapstructure:"back"`
	Download bool   `mapstructure:"download"`
	Navigate string `mapstructure:"navigate"`
	Feedback string `mapstructure:"feedback"`
	Dismiss  bool   `mapstructure:"dismiss"`
}

func (o optionRecord) action() (domain.Action, error) {
	var actions []domain.Action
	if o.Go != "" {
		actions = append(actions, domain.GoToStep(domain.StepName(o.Go)))
	}
	if o.Back {
		actions = append(actions, domain.GoBack())
	}
	if o.Download {
		actions = append(actions, domain.DownloadAsset())
	}
	if o.Navigate != "" {
		actions = append(actions, domain.NavigateTo(o.Navigate))
	}
	if o.Feedback != "" {
		actions = append(actions, domain.SubmitFeedback(domain.Rating(o.Feedback)))
	}
	if o.Dismiss {
		actions = append(actions, domain.Dismiss())
	}

	switch len(actions) {
	case 0:
		return domain.Action{}, fmt.Errorf("no action")
	case 1:
		return actions[0], nil
	}
	return domain.Action{}, fmt.Errorf("%d actions, want exactly one", len(actions))
}

func decodeStep(raw map[string]any) (stepRecord, error) {
	var rec stepRecord
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &rec,
	})
	if err != nil {
		return rec, err
	}
	if err := decoder.Decode(raw); err != nil {
		return rec, err
	}
	return rec, nil
}

// parse decodes data into steps, collecting every problem it can find.
// The returned steps keep document order.
func parse(data []byte) ([]domain.Step, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse steps: %w", err)
	}
	if len(doc.Steps) == 0 {
		return nil, &AggregateError{Errors: []error{&ValidationError{Option: -1, Reason: "no steps defined"}}}
	}

	var errs []error
	steps := make([]domain.Step, 0, len(doc.Steps))
	for i, raw := range doc.Steps {
		rec, err := decodeStep(raw)
		if err != nil {
			errs = append(errs, &ValidationError{Step: fmt.Sprintf("#%d", i), Option: -1, Reason: err.Error()})
			continue
		}

		step := domain.Step{
			Name:    domain.StepName(rec.Name),
			Text:    rec.Text,
			Options: make([]domain.Option, 0, len(rec.Options)),
		}
		for j, o := range rec.Options {
			action, err := o.action()
			if err != nil {
				errs = append(errs, &ValidationError{Step: rec.Name, Option: j, Reason: err.Error()})
				continue
			}
			step.Options = append(step.Options, domain.Option{
				Label:  o.Label,
				Icon:   o.Icon,
				Action: action,
			})
		}
		steps = append(steps, step)
	}

	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}
	return steps, nil
}
