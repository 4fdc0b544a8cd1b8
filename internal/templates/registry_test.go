package templates

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-template-workers/internal/common/logger"
	"invoice-template-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func sequentialIDs() IDGenerator {
	var mu sync.Mutex
	n := 0
	return func(origin models.TemplateOrigin, _ time.Time) string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", origin, n)
	}
}

func newTestRegistry(t *testing.T) (*Registry, *fakeClock) {
	clock := newFakeClock()
	reg := NewRegistry(
		WithClock(clock.Now),
		WithIDGenerator(sequentialIDs()),
		WithLogger(logger.NewTestLogger(t)),
	)
	return reg, clock
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

// ==========================
// Seeding and Reads
// ==========================

func TestNewRegistry_SeedsBuiltins(t *testing.T) {
	reg, clock := newTestRegistry(t)

	all := reg.All()
	require.Len(t, all, 4)
	assert.Equal(t, BuiltinIDs(), []string{all[0].ID, all[1].ID, all[2].ID, all[3].ID})

	categories := map[models.TemplateCategory]bool{}
	for _, tmpl := range all {
		assert.Equal(t, models.OriginBuiltIn, tmpl.Origin)
		assert.True(t, tmpl.IsActive)
		assert.Equal(t, clock.Now(), tmpl.CreatedAt)
		assert.True(t, ValidateConfig(tmpl.Config).Valid, tmpl.ID)
		categories[tmpl.Category] = true
	}
	assert.Len(t, categories, 4)
}

func TestRegistry_GetByID(t *testing.T) {
	reg, _ := newTestRegistry(t)

	tmpl, ok := reg.GetByID("minimal-clean")
	require.True(t, ok)
	assert.Equal(t, models.LayoutMinimal, tmpl.Config.Layout)

	_, ok = reg.GetByID("missing")
	assert.False(t, ok)
}

func TestRegistry_ReturnsCopies(t *testing.T) {
	reg, _ := newTestRegistry(t)

	tmpl, _ := reg.GetByID("creative-bold")
	tmpl.Name = "Hijacked"
	tmpl.Config.Colors.Primary = "#000000"

	all := reg.All()
	all[2].Name = "Also hijacked"

	fresh, _ := reg.GetByID("creative-bold")
	assert.Equal(t, "Creative Bold", fresh.Name)
	assert.Equal(t, "#7c3aed", fresh.Config.Colors.Primary)
}

func TestRegistry_ByCategory(t *testing.T) {
	reg, _ := newTestRegistry(t)
	reg.Create("Mine", nil)

	professional := reg.ByCategory(models.CategoryProfessional)
	require.Len(t, professional, 2)
	assert.Equal(t, "modern-professional", professional[0].ID)
	assert.Equal(t, "Mine", professional[1].Name)
}

// ==========================
// Create / Update
// ==========================

func TestRegistry_Create_DefaultConfig(t *testing.T) {
	reg, clock := newTestRegistry(t)

	created := reg.Create("My Template", &models.ConfigPatch{})
	got, ok := reg.GetByID(created.ID)
	require.True(t, ok)

	assert.Equal(t, "My Template", got.Name)
	assert.Equal(t, models.OriginCustom, got.Origin)
	assert.True(t, got.IsActive)
	assert.Equal(t, clock.Now(), got.CreatedAt)
	assert.Equal(t, clock.Now(), got.UpdatedAt)
	assert.Equal(t, DefaultConfig(), got.Config)

	c := got.Config
	for _, v := range []string{c.Colors.Primary, c.Colors.Secondary, c.Colors.Accent, c.Colors.Background, c.Colors.Text, c.Fonts.Heading, c.Fonts.Body, c.Fonts.Accent} {
		assert.NotEmpty(t, v)
	}
	assert.Equal(t, allSections(true), c.Sections)
	assert.Equal(t, 5, reg.Len())
}

func TestRegistry_Create_MergesPatch(t *testing.T) {
	reg, _ := newTestRegistry(t)

	layout := models.LayoutClassic
	created := reg.Create("Patched", &models.ConfigPatch{
		Layout:   &layout,
		Colors:   &models.ColorPalettePatch{Primary: strPtr("#ff0000")},
		Sections: &models.SectionTogglesPatch{Terms: boolPtr(false)},
	})

	assert.Equal(t, models.LayoutClassic, created.Config.Layout)
	assert.Equal(t, "#ff0000", created.Config.Colors.Primary)
	assert.Equal(t, DefaultConfig().Colors.Secondary, created.Config.Colors.Secondary)
	assert.False(t, created.Config.Sections.Terms)
	assert.True(t, created.Config.Sections.Footer)
}

func TestRegistry_Create_AcceptsInvalidConfig(t *testing.T) {
	reg, _ := newTestRegistry(t)

	empty := models.Layout("")
	created := reg.Create("Blank layout", &models.ConfigPatch{Layout: &empty})

	_, ok := reg.GetByID(created.ID)
	assert.True(t, ok)
	assert.False(t, ValidateConfig(created.Config).Valid)
}

func TestRegistry_Create_RegeneratesCollidingIDs(t *testing.T) {
	calls := 0
	gen := func(origin models.TemplateOrigin, _ time.Time) string {
		calls++
		if calls <= 3 {
			return "modern-professional"
		}
		return fmt.Sprintf("fresh-%d", calls)
	}
	reg := NewRegistry(WithIDGenerator(gen))

	created := reg.Create("X", nil)
	assert.Equal(t, "fresh-4", created.ID)

	builtin, _ := reg.GetByID("modern-professional")
	assert.Equal(t, models.OriginBuiltIn, builtin.Origin)
}

func TestRegistry_Create_StuckGeneratorFallsBack(t *testing.T) {
	reg := NewRegistry(WithIDGenerator(func(models.TemplateOrigin, time.Time) string { return "minimal-clean" }))

	created := reg.Create("X", nil)
	assert.NotEqual(t, "minimal-clean", created.ID)
	assert.Contains(t, created.ID, "custom-")
	assert.Equal(t, 5, reg.Len())
}

func TestDefaultIDGenerator_Format(t *testing.T) {
	now := time.UnixMilli(1767225600000)
	id := DefaultIDGenerator(models.OriginImported, now)

	assert.Regexp(t, `^imported-1767225600000-[0-9a-f]{8}$`, id)
	assert.NotEqual(t, id, DefaultIDGenerator(models.OriginImported, now))
}

func TestRegistry_Update(t *testing.T) {
	reg, clock := newTestRegistry(t)
	created := reg.Create("Before", nil)
	clock.Advance(time.Hour)

	category := models.CategoryCreative
	updated, ok := reg.Update(created.ID, models.TemplatePatch{
		Name:     strPtr("After"),
		Category: &category,
		IsActive: boolPtr(false),
		Config:   &models.ConfigPatch{Fonts: &models.FontSetPatch{Heading: strPtr("Lato")}},
	})
	require.True(t, ok)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, models.OriginCustom, updated.Origin)
	assert.Equal(t, "After", updated.Name)
	assert.Equal(t, models.CategoryCreative, updated.Category)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Lato", updated.Config.Fonts.Heading)
	assert.Equal(t, DefaultConfig().Fonts.Body, updated.Config.Fonts.Body)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, clock.Now(), updated.UpdatedAt)

	stored, _ := reg.GetByID(created.ID)
	assert.Equal(t, updated, stored)
}

func TestRegistry_Update_BuiltinAllowed(t *testing.T) {
	reg, _ := newTestRegistry(t)

	updated, ok := reg.Update("classic-corporate", models.TemplatePatch{Name: strPtr("Renamed")})
	require.True(t, ok)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, models.OriginBuiltIn, updated.Origin)
}

func TestRegistry_Update_NotFound(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, ok := reg.Update("missing", models.TemplatePatch{Name: strPtr("x")})
	assert.False(t, ok)
	assert.Equal(t, 4, reg.Len())
}

// ==========================
// Delete
// ==========================

func TestRegistry_Delete_BuiltinRefused(t *testing.T) {
	reg, _ := newTestRegistry(t)

	for _, id := range BuiltinIDs() {
		before := reg.All()
		assert.False(t, reg.Delete(id), id)
		assert.Equal(t, before, reg.All(), id)
	}
}

func TestRegistry_Delete(t *testing.T) {
	reg, _ := newTestRegistry(t)
	custom := reg.Create("Custom", nil)
	imported, ok := reg.Import(models.TemplatePayload{Name: "Imported", Config: &models.TemplateConfig{}})
	require.True(t, ok)

	assert.True(t, reg.Delete(custom.ID))
	assert.True(t, reg.Delete(imported.ID))
	assert.False(t, reg.Delete(custom.ID), "second delete")
	assert.False(t, reg.Delete("missing"))

	assert.Equal(t, 4, reg.Len())
	_, ok = reg.GetByID(custom.ID)
	assert.False(t, ok)
}

func TestRegistry_Delete_PreservesOrder(t *testing.T) {
	reg, _ := newTestRegistry(t)
	a := reg.Create("A", nil)
	b := reg.Create("B", nil)
	c := reg.Create("C", nil)

	require.True(t, reg.Delete(b.ID))

	all := reg.All()
	require.Len(t, all, 6)
	assert.Equal(t, a.ID, all[4].ID)
	assert.Equal(t, c.ID, all[5].ID)
}

// ==========================
// Duplicate
// ==========================

func TestRegistry_Duplicate(t *testing.T) {
	reg, clock := newTestRegistry(t)
	clock.Advance(time.Minute)

	dup, ok := reg.Duplicate("creative-bold", "X")
	require.True(t, ok)

	src, _ := reg.GetByID("creative-bold")
	assert.NotEqual(t, src.ID, dup.ID)
	assert.Equal(t, "X", dup.Name)
	assert.Equal(t, models.OriginCustom, dup.Origin)
	assert.Equal(t, src.Config, dup.Config)
	assert.Equal(t, src.Category, dup.Category)
	assert.Equal(t, clock.Now(), dup.CreatedAt)
	assert.True(t, dup.CreatedAt.After(src.CreatedAt))
	assert.True(t, reg.Delete(dup.ID), "duplicates of built-ins are deletable")
}

func TestRegistry_Duplicate_Independent(t *testing.T) {
	reg, _ := newTestRegistry(t)
	original, _ := reg.GetByID("modern-professional")

	dup, ok := reg.Duplicate("modern-professional", "X")
	require.True(t, ok)

	_, ok = reg.Update(dup.ID, models.TemplatePatch{
		Name:   strPtr("Changed"),
		Config: &models.ConfigPatch{Colors: &models.ColorPalettePatch{Primary: strPtr("#123456")}},
	})
	require.True(t, ok)

	after, _ := reg.GetByID("modern-professional")
	assert.Equal(t, original, after)
}

func TestRegistry_Duplicate_ImportedBecomesCustom(t *testing.T) {
	reg, _ := newTestRegistry(t)
	imported, _ := reg.Import(models.TemplatePayload{Name: "In", Config: &models.TemplateConfig{Layout: models.LayoutMinimal}})

	dup, ok := reg.Duplicate(imported.ID, "Copy")
	require.True(t, ok)
	assert.Equal(t, models.OriginCustom, dup.Origin)
}

func TestRegistry_Duplicate_NotFound(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, ok := reg.Duplicate("missing", "X")
	assert.False(t, ok)
	assert.Equal(t, 4, reg.Len())
}

// ==========================
// Export / Import
// ==========================

func TestRegistry_ExportImport_RoundTrip(t *testing.T) {
	reg, _ := newTestRegistry(t)
	custom := reg.Create("Custom", &models.ConfigPatch{Colors: &models.ColorPalettePatch{Accent: strPtr("#abcdef")}})

	for _, id := range append(BuiltinIDs(), custom.ID) {
		src, _ := reg.GetByID(id)

		payload, ok := reg.Export(id)
		require.True(t, ok, id)

		imported, ok := reg.Import(payload)
		require.True(t, ok, id)

		assert.Equal(t, src.Name, imported.Name, id)
		assert.Equal(t, src.Category, imported.Category, id)
		assert.Equal(t, src.Config, imported.Config, id)
		assert.Equal(t, src.Thumbnail, imported.Thumbnail, id)
		assert.NotEqual(t, src.ID, imported.ID, id)
		assert.Equal(t, models.OriginImported, imported.Origin, id)
	}
}

func TestRegistry_Export_IsDetached(t *testing.T) {
	reg, _ := newTestRegistry(t)

	payload, ok := reg.Export("minimal-clean")
	require.True(t, ok)
	payload.Config.Layout = models.LayoutCreative

	src, _ := reg.GetByID("minimal-clean")
	assert.Equal(t, models.LayoutMinimal, src.Config.Layout)
}

func TestRegistry_Export_NotFound(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, ok := reg.Export("missing")
	assert.False(t, ok)
}

func TestRegistry_Import_RequiresNameAndConfig(t *testing.T) {
	tests := []struct {
		name    string
		payload models.TemplatePayload
	}{
		{"empty payload", models.TemplatePayload{}},
		{"missing config", models.TemplatePayload{Name: "No config"}},
		{"missing name", models.TemplatePayload{Config: &models.TemplateConfig{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, _ := newTestRegistry(t)

			_, ok := reg.Import(tt.payload)
			assert.False(t, ok)
			assert.Len(t, reg.All(), 4)
		})
	}
}

func TestRegistry_Import_DefaultsCategory(t *testing.T) {
	reg, _ := newTestRegistry(t)

	imported, ok := reg.Import(models.TemplatePayload{Name: "Plain", Config: &models.TemplateConfig{}})
	require.True(t, ok)
	assert.Equal(t, models.CategoryProfessional, imported.Category)
	assert.True(t, imported.IsActive)
}

func TestRegistry_Import_UnknownCategoryFallsBack(t *testing.T) {
	reg, _ := newTestRegistry(t)

	imported, ok := reg.Import(models.TemplatePayload{
		Name:     "Odd",
		Category: models.TemplateCategory("fancy"),
		Config:   &models.TemplateConfig{},
	})
	require.True(t, ok)
	assert.Equal(t, models.CategoryProfessional, imported.Category)
	assert.Len(t, reg.ByCategory(models.CategoryProfessional), 2)
}

// ==========================
// Conditional Update
// ==========================

func TestRegistry_UpdateIf(t *testing.T) {
	reg, _ := newTestRegistry(t)
	created := reg.Create("Checked", nil)
	errBroken := errors.New("broken config")
	rejectBlankHeading := func(merged models.Template) error {
		if merged.Config.Fonts.Heading == "" {
			return errBroken
		}
		return nil
	}

	blank := ""
	_, err := reg.UpdateIf(created.ID, models.TemplatePatch{
		Config: &models.ConfigPatch{Fonts: &models.FontSetPatch{Heading: &blank}},
	}, rejectBlankHeading)
	assert.ErrorIs(t, err, errBroken)
	unchanged, _ := reg.GetByID(created.ID)
	assert.Equal(t, created, unchanged)

	name := "Renamed"
	var seen models.Template
	updated, err := reg.UpdateIf(created.ID, models.TemplatePatch{Name: &name}, func(merged models.Template) error {
		seen = merged
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", seen.Name)
	assert.Equal(t, created.Config, seen.Config)
	assert.Equal(t, "Renamed", updated.Name)

	_, err = reg.UpdateIf("missing", models.TemplatePatch{Name: &name}, nil)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestRegistry_UpdateIf_ConcurrentPatchesStayValid(t *testing.T) {
	reg, _ := newTestRegistry(t)
	created := reg.Create("Contended", nil)
	valid := func(merged models.Template) error {
		if v := ValidateConfig(merged.Config); !v.Valid {
			return errors.New(v.Errors[0])
		}
		return nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			heading := fmt.Sprintf("Font %d", i)
			if i%2 == 0 {
				heading = ""
			}
			reg.UpdateIf(created.ID, models.TemplatePatch{
				Config: &models.ConfigPatch{Fonts: &models.FontSetPatch{Heading: &heading}},
			}, valid)
		}(i)
	}
	wg.Wait()

	final, ok := reg.GetByID(created.ID)
	require.True(t, ok)
	assert.True(t, ValidateConfig(final.Config).Valid)
	assert.NotEmpty(t, final.Config.Fonts.Heading)
}

// ==========================
// Built-in Overrides
// ==========================

func TestRegistry_Override(t *testing.T) {
	reg, _ := newTestRegistry(t)
	seeded, _ := reg.GetByID("modern-professional")
	edited := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)

	cfg := seeded.Config
	cfg.Colors.Primary = "#123456"
	assert.True(t, reg.Override(models.Template{
		ID:        "modern-professional",
		Name:      "My Modern",
		Origin:    models.OriginBuiltIn,
		Category:  models.CategoryCorporate,
		Config:    cfg,
		IsActive:  false,
		CreatedAt: edited,
		UpdatedAt: edited,
	}))

	got, _ := reg.GetByID("modern-professional")
	assert.Equal(t, "My Modern", got.Name)
	assert.Equal(t, "#123456", got.Config.Colors.Primary)
	assert.Equal(t, models.CategoryCorporate, got.Category)
	assert.False(t, got.IsActive)
	assert.Equal(t, edited, got.UpdatedAt)
	assert.Equal(t, seeded.CreatedAt, got.CreatedAt)
	assert.Equal(t, models.OriginBuiltIn, got.Origin)

	custom := reg.Create("Mine", nil)
	assert.False(t, reg.Override(models.Template{ID: custom.ID, Name: "Hijack"}))
	assert.False(t, reg.Override(models.Template{ID: "missing", Name: "Ghost"}))
	assert.Equal(t, 5, reg.Len())
}

// ==========================
// Restore
// ==========================

func TestRegistry_Restore(t *testing.T) {
	reg, _ := newTestRegistry(t)
	stored := models.Template{
		ID:        "imported-1-abc",
		Name:      "Stored",
		Origin:    models.OriginImported,
		Category:  models.CategoryMinimal,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, reg.Restore(stored))
	got, ok := reg.GetByID(stored.ID)
	require.True(t, ok)
	assert.Equal(t, stored, got)

	assert.False(t, reg.Restore(stored), "duplicate id")
	assert.False(t, reg.Restore(models.Template{ID: "x", Origin: models.OriginBuiltIn}))
	assert.False(t, reg.Restore(models.Template{Origin: models.OriginCustom}))
	assert.Equal(t, 5, reg.Len())
}

// ==========================
// Validation
// ==========================

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *models.TemplateConfig)
		errors []string
	}{
		{"valid default", func(c *models.TemplateConfig) {}, nil},
		{"missing layout", func(c *models.TemplateConfig) { c.Layout = "" }, []string{ErrLayoutRequired}},
		{"missing primary", func(c *models.TemplateConfig) { c.Colors.Primary = "" }, []string{ErrPrimaryColorRequired}},
		{"missing heading", func(c *models.TemplateConfig) { c.Fonts.Heading = "" }, []string{ErrHeadingFontRequired}},
		{"everything missing", func(c *models.TemplateConfig) { *c = models.TemplateConfig{} },
			[]string{ErrLayoutRequired, ErrPrimaryColorRequired, ErrHeadingFontRequired}},
	}

	reg, _ := newTestRegistry(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			result := reg.ValidateConfig(cfg)
			assert.Equal(t, len(tt.errors) == 0, result.Valid)
			assert.Equal(t, tt.errors, result.Errors)
		})
	}
}

// ==========================
// Concurrency
// ==========================

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			created := reg.Create(fmt.Sprintf("t-%d", i), nil)
			reg.Update(created.ID, models.TemplatePatch{Name: strPtr("renamed")})
			dup, _ := reg.Duplicate(created.ID, "dup")
			reg.All()
			reg.Delete(dup.ID)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 24, reg.Len())
}
