package cli

import "testing"

func TestCommandsRegistered(t *testing.T) {
	want := []string{"version", "init", "pull", "publish", "preview", "run", "doctor"}
	for _, name := range want {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestConfigFlagDefault(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("config")
	if flag == nil {
		t.Fatal("config flag not defined")
	}
	if flag.DefValue != ".trendpress" {
		t.Errorf("unexpected default: %q", flag.DefValue)
	}
}
