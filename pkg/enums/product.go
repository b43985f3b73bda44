package enums

import "fmt"

// ProductCategory represents the canonical product categories supported by the catalog.
type ProductCategory string

const (
	ProductCategoryVegetables ProductCategory = "vegetables"
	ProductCategoryFruits     ProductCategory = "fruits"
	ProductCategoryDairy      ProductCategory = "dairy"
	ProductCategoryMeat       ProductCategory = "meat"
	ProductCategoryGrains     ProductCategory = "grains"
	ProductCategoryHerbs      ProductCategory = "herbs"
	ProductCategoryPrepared   ProductCategory = "prepared"
	ProductCategoryOther      ProductCategory = "other"
)

var validProductCategories = []ProductCategory{
	ProductCategoryVegetables,
	ProductCategoryFruits,
	ProductCategoryDairy,
	ProductCategoryMeat,
	ProductCategoryGrains,
	ProductCategoryHerbs,
	ProductCategoryPrepared,
	ProductCategoryOther,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ProductCategories returns every valid category in declaration order.
func ProductCategories() []ProductCategory {
	out := make([]ProductCategory, len(validProductCategories))
	copy(out, validProductCategories)
	return out
}
