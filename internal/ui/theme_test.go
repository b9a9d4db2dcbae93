package ui

import (
	"reflect"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/daylog/internal/logstore"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 || names[0] != "Nightfox" {
		t.Fatalf("ThemeNames() = %v, want Nightfox first of 3", names)
	}
}

func TestNextTheme_Cycles(t *testing.T) {
	if got := NextTheme("Nightfox"); got != "Kanagawa" {
		t.Fatalf("NextTheme(Nightfox) = %q, want Kanagawa", got)
	}
	if got := NextTheme("Slate"); got != "Nightfox" {
		t.Fatalf("NextTheme(Slate) = %q, want Nightfox", got)
	}
	if got := NextTheme("Unknown"); got != "Nightfox" {
		t.Fatalf("NextTheme(Unknown) = %q, want Nightfox", got)
	}
}

func TestGetTheme_FallsBack(t *testing.T) {
	if got := GetTheme("Kanagawa").Name; got != "Kanagawa" {
		t.Fatalf("GetTheme(Kanagawa).Name = %q, want Kanagawa", got)
	}
	if got := GetTheme("Dracula").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Dracula).Name = %q, want Nightfox (fallback)", got)
	}
}

func TestLevelStyle_DistinctPerLevel(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		styles := th.Styles()
		want := map[logstore.Level]string{
			logstore.LevelError:   th.Danger,
			logstore.LevelWarn:    th.Warning,
			logstore.LevelInfo:    th.Info,
			logstore.LevelRequest: th.Request,
			logstore.LevelUnknown: th.Text,
		}
		for level, color := range want {
			got := styles.LevelStyle(level).GetForeground()
			if got != lipglossColor(color) {
				t.Fatalf("%s: LevelStyle(%s) foreground = %v, want %s", name, level, got, color)
			}
		}
		if th.Request == "" {
			t.Fatalf("%s: Request color is empty", name)
		}
	}
}

func TestThemes_DefineEveryColor(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		v := reflect.ValueOf(th)
		for i := 0; i < v.NumField(); i++ {
			if v.Field(i).String() == "" {
				t.Fatalf("%s: %s is empty", name, v.Type().Field(i).Name)
			}
		}
	}
}

func TestWithBackground_KeepsForegrounds(t *testing.T) {
	th := GetTheme("Nightfox")
	base := th.Styles()
	styled := base.WithBackground(th.FocusBg)

	pairs := map[string][2]lipgloss.Style{
		"Text":        {base.Text, styled.Text},
		"MutedText":   {base.MutedText, styled.MutedText},
		"WarningText": {base.WarningText, styled.WarningText},
		"DangerText":  {base.DangerText, styled.DangerText},
		"InfoText":    {base.InfoText, styled.InfoText},
		"RequestText": {base.RequestText, styled.RequestText},
	}
	for name, pair := range pairs {
		if got, want := pair[1].GetForeground(), pair[0].GetForeground(); got != want {
			t.Fatalf("%s foreground = %v, want %v", name, got, want)
		}
		if got := pair[1].GetBackground(); got != lipglossColor(th.FocusBg) {
			t.Fatalf("%s background = %v, want %s", name, got, th.FocusBg)
		}
	}
	if got := styled.BorderFocus.GetBorderTopForeground(); got != lipglossColor(th.BorderFocus) {
		t.Fatalf("BorderFocus border = %v, want %s", got, th.BorderFocus)
	}
}

func lipglossColor(hex string) lipgloss.TerminalColor {
	return lipgloss.Color(hex)
}
