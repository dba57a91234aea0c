package usecase

import (
	"testing"

	"github.com/suptia/backend/internal/domain"
)

func TestValidateIngredientAmount_MicrogramConfusion(t *testing.T) {
	v := NewValidator(false)

	t.Run("corrects folate recorded in µg", func(t *testing.T) {
		// RDA for 葉酸 is 0.48mg; 480 >= 0.48*500 so the stored value is µg
		result := v.ValidateIngredientAmount("葉酸", 480, "")
		if result.Value != 0.48 {
			t.Errorf("Value = %v, want 0.48", result.Value)
		}
		if !result.AutoFixed {
			t.Error("AutoFixed = false, want true")
		}
		if result.Warning == "" {
			t.Error("expected a warning naming the correction")
		}
	})

	t.Run("correction is idempotent", func(t *testing.T) {
		first := v.ValidateIngredientAmount("葉酸", 480, "")
		second := v.ValidateIngredientAmount("葉酸", first.Value, "")
		if second.Value != first.Value {
			t.Errorf("re-validated Value = %v, want %v unchanged", second.Value, first.Value)
		}
		if second.AutoFixed {
			t.Error("AutoFixed = true on already-corrected value, want false")
		}
		if second.Warning != "" {
			t.Errorf("Warning = %q on already-corrected value, want none", second.Warning)
		}
	})

	t.Run("corrects vitamin D recorded in µg", func(t *testing.T) {
		result := v.ValidateIngredientAmount("ビタミンD", 25, "")
		if result.Value != 0.025 {
			t.Errorf("Value = %v, want 0.025", result.Value)
		}
		if !result.AutoFixed {
			t.Error("AutoFixed = false, want true")
		}
	})

	t.Run("ignores mass-dosed ingredients", func(t *testing.T) {
		// 亜鉛 is not microgram-dosed; a large-but-plausible value passes
		result := v.ValidateIngredientAmount("亜鉛", 30, "")
		if result.Value != 30 {
			t.Errorf("Value = %v, want 30 unchanged", result.Value)
		}
		if result.AutoFixed {
			t.Error("AutoFixed = true, want false")
		}
	})
}

func TestValidateIngredientAmount_ZeroAmount(t *testing.T) {
	v := NewValidator(false)

	t.Run("extracts ingredient-specific quantity from product name", func(t *testing.T) {
		result := v.ValidateIngredientAmount("ビタミンC", 0, "ビタミンC1000 お徳用 90日分")
		if result.Value != 1000 {
			t.Errorf("Value = %v, want 1000", result.Value)
		}
		if !result.AutoFixed {
			t.Error("AutoFixed = false, want true")
		}
		if result.Warning == "" {
			t.Error("expected an explanatory warning")
		}
	})

	t.Run("extracts generic mg quantity from product name", func(t *testing.T) {
		result := v.ValidateIngredientAmount("マグネシウム", 0, "マグネシウム 250mg 60粒")
		if result.Value != 250 {
			t.Errorf("Value = %v, want 250", result.Value)
		}
		if !result.AutoFixed {
			t.Error("AutoFixed = false, want true")
		}
	})

	t.Run("converts generic gram quantity to mg", func(t *testing.T) {
		// the explicit g unit wins over the bare number after コラーゲン
		result := v.ValidateIngredientAmount("コラーゲン", 0, "コラーゲン5g配合ドリンク")
		if !result.AutoFixed {
			t.Error("AutoFixed = false, want true")
		}
		if result.Value != 5000 {
			t.Errorf("Value = %v, want 5000", result.Value)
		}
	})

	t.Run("falls back to RDA when nothing is extractable", func(t *testing.T) {
		result := v.ValidateIngredientAmount("ビタミンC", 0, "マルチビタミン")
		if result.Value != 100 {
			t.Errorf("Value = %v, want 100 (RDA)", result.Value)
		}
		if !result.AutoFixed {
			t.Error("AutoFixed = false, want true")
		}
	})

	t.Run("returns zero with warning when neither RDA nor extraction exists", func(t *testing.T) {
		result := v.ValidateIngredientAmount("プラセンタ", 0, "")
		if result.Value != 0 {
			t.Errorf("Value = %v, want 0", result.Value)
		}
		if result.AutoFixed {
			t.Error("AutoFixed = true, want false")
		}
		if result.Warning == "" {
			t.Error("expected a manual-review warning")
		}
	})
}

func TestValidateIngredientAmount_ExtremeMagnitude(t *testing.T) {
	v := NewValidator(false)

	t.Run("clamps collagen to its known ceiling", func(t *testing.T) {
		result := v.ValidateIngredientAmount("コラーゲン", 150000, "")
		if result.Value != 5000 {
			t.Errorf("Value = %v, want 5000", result.Value)
		}
		if !result.AutoFixed {
			t.Error("AutoFixed = false, want true")
		}
	})

	t.Run("flags extreme values without a ceiling for review", func(t *testing.T) {
		result := v.ValidateIngredientAmount("ビタミンC", 200000, "")
		if result.Value != 200000 {
			t.Errorf("Value = %v, want 200000 unchanged", result.Value)
		}
		if result.AutoFixed {
			t.Error("AutoFixed = true, want false (never auto-fix without a ceiling)")
		}
		if result.Warning == "" {
			t.Error("expected a manual-review warning")
		}
	})
}

func TestValidateIngredientAmount_ImplausibleRatio(t *testing.T) {
	v := NewValidator(false)

	t.Run("flags amounts over 1000x the allowance", func(t *testing.T) {
		// 亜鉛 RDA is 11mg; 12000 is implausible but below the extreme floor
		result := v.ValidateIngredientAmount("亜鉛", 12000, "")
		if result.Value != 12000 {
			t.Errorf("Value = %v, want 12000 unchanged", result.Value)
		}
		if result.AutoFixed {
			t.Error("AutoFixed = true, want false (ratio anomalies are never auto-fixed)")
		}
		if result.Warning == "" {
			t.Error("expected a review warning")
		}
	})

	t.Run("flags amounts under 1% of the allowance", func(t *testing.T) {
		// カルシウム RDA is 650mg; 5mg is suspiciously low
		result := v.ValidateIngredientAmount("カルシウム", 5, "")
		if result.Value != 5 {
			t.Errorf("Value = %v, want 5 unchanged", result.Value)
		}
		if result.AutoFixed {
			t.Error("AutoFixed = true, want false")
		}
		if result.Warning == "" {
			t.Error("expected a review warning")
		}
	})

	t.Run("exempts CFU-dosed ingredients from the ratio check", func(t *testing.T) {
		result := v.ValidateIngredientAmount("乳酸菌", 50000, "")
		if result.Value != 50000 {
			t.Errorf("Value = %v, want 50000 unchanged", result.Value)
		}
		if result.Warning != "" {
			t.Errorf("Warning = %q, want none for CFU-dosed ingredient", result.Warning)
		}
	})

	t.Run("passes plausible values through silently", func(t *testing.T) {
		result := v.ValidateIngredientAmount("ビタミンC", 500, "")
		if result.Value != 500 {
			t.Errorf("Value = %v, want 500", result.Value)
		}
		if result.AutoFixed || result.Warning != "" {
			t.Errorf("got AutoFixed=%v Warning=%q, want clean pass-through", result.AutoFixed, result.Warning)
		}
	})
}

func TestValidateIngredientAmount_AliasResolution(t *testing.T) {
	v := NewValidator(false)

	t.Run("resolves aliases before the RDA lookup", func(t *testing.T) {
		// シアノコバラミン is ビタミンB12 (RDA 0.0024mg, microgram-dosed)
		result := v.ValidateIngredientAmount("シアノコバラミン", 2.4, "")
		if result.Value != 0.0024 {
			t.Errorf("Value = %v, want 0.0024", result.Value)
		}
		if !result.AutoFixed {
			t.Error("AutoFixed = false, want true")
		}
	})
}

func TestValidateIngredients(t *testing.T) {
	v := NewValidator(false)

	t.Run("preserves order and aggregates warnings", func(t *testing.T) {
		ingredients := []domain.ProductIngredientAmount{
			{IngredientName: "葉酸", AmountMgPerServing: 480},
			{IngredientName: "ビタミンC", AmountMgPerServing: 500},
			{IngredientName: "カルシウム", AmountMgPerServing: 5},
		}

		result := v.ValidateIngredients(ingredients, "マルチビタミン&ミネラル")

		if len(result.Ingredients) != 3 {
			t.Fatalf("len(Ingredients) = %d, want 3", len(result.Ingredients))
		}
		if result.Ingredients[0].IngredientName != "葉酸" || result.Ingredients[0].AmountMgPerServing != 0.48 {
			t.Errorf("first entry = %+v, want 葉酸 corrected to 0.48", result.Ingredients[0])
		}
		if result.Ingredients[1].AmountMgPerServing != 500 {
			t.Errorf("second entry amount = %v, want 500 unchanged", result.Ingredients[1].AmountMgPerServing)
		}
		if result.Ingredients[2].AmountMgPerServing != 5 {
			t.Errorf("third entry amount = %v, want 5 unchanged", result.Ingredients[2].AmountMgPerServing)
		}
		// 葉酸 correction + カルシウム ratio warning
		if len(result.Warnings) != 2 {
			t.Errorf("len(Warnings) = %d, want 2: %v", len(result.Warnings), result.Warnings)
		}
	})

	t.Run("empty list yields empty result", func(t *testing.T) {
		result := v.ValidateIngredients(nil, "")
		if len(result.Ingredients) != 0 || len(result.Warnings) != 0 {
			t.Errorf("got %+v, want empty result", result)
		}
	})
}
