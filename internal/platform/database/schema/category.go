package schema

// RefCategoryTable represents the 'category' table
type RefCategoryTable struct {
	Table         string
	ID            string
	Name          string
	SubCategories string
	ImageURL      string
	ParentID      string
	CreatedAt     string
	UpdatedAt     string
}

// RefCategory is the schema definition for category
var RefCategory = RefCategoryTable{
	Table:         "category",
	ID:            "id",
	Name:          "name",
	SubCategories: "sub_categories",
	ImageURL:      "image_url",
	ParentID:      "parent_id",
	CreatedAt:     "created_at",
	UpdatedAt:     "updated_at",
}

func (t RefCategoryTable) Columns() []string {
	return []string{t.ID, t.Name, t.SubCategories, t.ImageURL, t.ParentID, t.CreatedAt, t.UpdatedAt}
}
