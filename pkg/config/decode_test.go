package config

import (
	"strings"
	"testing"
)

type appConfig struct {
	Name     string  `json:"APP_NAME" validate:"required"`
	Port     int     `json:"PORT" validate:"gt=0,lt=65536"`
	Ratio    float64 `json:"RATIO"`
	Debug    bool    `json:"DEBUG"`
	Database struct {
		Host string `json:"HOST" validate:"required"`
		Port int    `json:"PORT"`
	} `json:"database"`
}

func TestDecode(t *testing.T) {
	doc := NewParser().ParseString(`APP_NAME is "Razan";
PORT is 3000;
RATIO is 0.25;
DEBUG is true;
[database]
HOST is "localhost";
PORT is 5432;
`)

	var cfg appConfig
	if err := Decode(doc, &cfg); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if cfg.Name != "Razan" || cfg.Port != 3000 || cfg.Ratio != 0.25 || !cfg.Debug {
		t.Errorf("top level = %+v", cfg)
	}
	if cfg.Database.Host != "localhost" || cfg.Database.Port != 5432 {
		t.Errorf("database = %+v", cfg.Database)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "type mismatch",
			input:   "APP_NAME is \"x\";\nPORT is \"abc\";\n[database]\nHOST is \"h\";\n",
			wantErr: "failed to decode",
		},
		{
			name:    "validation",
			input:   "APP_NAME is \"x\";\nPORT is 70000;\n[database]\nHOST is \"h\";\n",
			wantErr: "validation failed",
		},
		{
			name:    "missing required",
			input:   "PORT is 1;\n",
			wantErr: "validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg appConfig
			err := Decode(NewParser().ParseString(tt.input), &cfg)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Decode() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
