package triage

import (
	"context"
	"errors"
	"testing"
)

// configStore serves scripted config values and fails on demand.
type configStore struct {
	mockStore
	getErr error
}

func (c *configStore) GetConfigValue(ctx context.Context, key string) (string, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	return c.mockStore.GetConfigValue(ctx, key)
}

func TestLoadRecipients(t *testing.T) {
	t.Parallel()

	defaults := Recipients{Email: "alertas@hospital.org", WhatsApp: "whatsapp:+573001234567"}

	tests := []struct {
		name   string
		config map[string]string
		getErr error
		want   Recipients
	}{
		{
			name:   "no overrides",
			config: map[string]string{},
			want:   defaults,
		},
		{
			name: "both overridden",
			config: map[string]string{
				ConfigKeyEmail:    "guardia@hospital.org",
				ConfigKeyWhatsApp: "whatsapp:+10000000000",
			},
			want: Recipients{Email: "guardia@hospital.org", WhatsApp: "whatsapp:+10000000000"},
		},
		{
			name:   "partial override",
			config: map[string]string{ConfigKeyEmail: "guardia@hospital.org"},
			want:   Recipients{Email: "guardia@hospital.org", WhatsApp: defaults.WhatsApp},
		},
		{
			name:   "empty value falls back",
			config: map[string]string{ConfigKeyEmail: ""},
			want:   defaults,
		},
		{
			name:   "read failure falls back",
			config: map[string]string{ConfigKeyEmail: "guardia@hospital.org"},
			getErr: errors.New("connection reset"),
			want:   defaults,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &configStore{getErr: tt.getErr}
			store.audit = make(map[string]AuditEntry)
			store.config = make(map[string]string)
			for k, v := range tt.config {
				store.config[k] = v
			}

			got := LoadRecipients(context.Background(), store, defaults)
			if got != tt.want {
				t.Errorf("LoadRecipients = %+v, want %+v", got, tt.want)
			}
		})
	}
}
