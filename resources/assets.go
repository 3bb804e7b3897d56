package resources

import (
	"bufio"
	"embed"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
)

const logoDir = "logo/"

// Tray icon file names.
const (
	ActiveLogo = "clock_active.svg"
	PausedLogo = "clock_paused.svg"
)

//go:embed logo/*.svg
var logoFS embed.FS

//go:embed quotes.txt
var quotesText string

var logoCache sync.Map

var (
	quotesOnce sync.Once
	quotes     []string
)

// Logo returns a Fyne resource for the given logo file.
func Logo(fileName string) (fyne.Resource, error) {
	return loadResource(logoFS, logoDir+fileName, &logoCache)
}

// MustLogo returns a Fyne resource or panics on error.
func MustLogo(fileName string) fyne.Resource {
	resource, err := Logo(fileName)
	if err != nil {
		panic(err)
	}
	return resource
}

// Quotes returns the embedded motivational quotes.
func Quotes() []string {
	quotesOnce.Do(func() {
		scanner := bufio.NewScanner(strings.NewReader(quotesText))
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				quotes = append(quotes, line)
			}
		}
	})
	return append([]string(nil), quotes...)
}

// RandomQuote picks one quote using rng.
func RandomQuote(rng *rand.Rand) string {
	all := Quotes()
	if len(all) == 0 {
		return ""
	}
	return all[rng.Intn(len(all))]
}

func loadResource(fs embed.FS, path string, cache *sync.Map) (fyne.Resource, error) {
	if cached, ok := cache.Load(path); ok {
		return cached.(fyne.Resource), nil
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load resource %s: %w", path, err)
	}

	resource := fyne.NewStaticResource(path, data)
	cache.Store(path, resource)
	return resource, nil
}
