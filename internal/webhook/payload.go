package webhook

import (
	"encoding/json"
	"fmt"

	"github.com/picurit/intgw/internal/record"
	"github.com/picurit/intgw/internal/template"
)

// BuildPayload produces the outbound JSON body for a record. A field mapping
// wins over a body template; with neither configured the payload is an empty
// object.
func BuildPayload(cfg *Config, rec *record.Record) ([]byte, error) {
	if len(cfg.Data) > 0 {
		data := make(map[string]any, len(cfg.Data))
		for _, m := range cfg.Data {
			v, _ := rec.Field(m.Field)
			data[m.Key] = v
		}
		payload, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("webhook: encoding payload: %w", err)
		}
		return payload, nil
	}

	if cfg.BodyTemplate != "" {
		return template.Render(cfg.BodyTemplate, record.NewProxy(rec))
	}

	return []byte("{}"), nil
}
