package validation

import (
	"github.com/go-playground/validator/v10"

	"github.com/vantagepoint/vantage-admin/internal/domain"
	"github.com/vantagepoint/vantage-admin/internal/sanitize"
)

const suspiciousText = "Обнаружено недопустимое содержимое"

var suspicious = Rule{Text: suspiciousText, Code: CodeSuspiciousContent}

// PostForm is the create/edit payload for a post.
type PostForm struct {
	Code           string         `json:"code" validate:"required,digits,max=5"`
	Title          string         `json:"title" validate:"required,safe,max=400"`
	Text           string         `json:"text" validate:"required,safe,min=10,max=1500"`
	AuthorID       int            `json:"authorId" validate:"gt=0"`
	TagIDs         []int          `json:"tagIds" validate:"min=1"`
	PreviewPicture *domain.Upload `json:"-"`
}

var postCatalog = Catalog{
	"code.required":  {"Укажите код статьи", CodeRequired},
	"code.digits":    {"Код должен содержать только цифры", CodeDigitsOnly},
	"code.max":       {"Код не должен превышать 5 символов", CodeTooLong},
	"title.required": {"Укажите название статьи", CodeRequired},
	"title.safe":     suspicious,
	"title.max":      {"Название не должно превышать 400 символов", CodeTooLong},
	"text.required":  {"Укажите текст статьи", CodeRequired},
	"text.safe":      suspicious,
	"text.min":       {"Текст должен содержать минимум 10 символов", CodeTooShort},
	"text.max":       {"Текст не должен превышать 1500 символов", CodeTooLong},
	"authorId.gt":    {"Выберите автора", CodeNoSelection},
	"tagIds.min":     {"Выберите хотя бы один тег", CodeMinSelection},
}

// Catalog implements Form.
func (PostForm) Catalog() Catalog { return postCatalog }

// Sanitize implements Sanitizer.
func (f *PostForm) Sanitize() {
	f.Title = sanitize.Text(f.Title)
	f.Text = sanitize.Text(f.Text)
}

// TagForm is the create/edit payload for a tag.
type TagForm struct {
	Code string `json:"code" validate:"required,digits,min=2,max=5"`
	Name string `json:"name" validate:"required,safe,letters,min=2,max=50"`
	Sort int    `json:"sort" validate:"gte=0"`
}

var tagCatalog = Catalog{
	"code.required": {"Укажите код тега", CodeRequired},
	"code.digits":   {"Код должен содержать только цифры", CodeDigitsOnly},
	"code.min":      {"Код должен содержать минимум 2 символа", CodeTooShort},
	"code.max":      {"Код не должен превышать 5 символов", CodeTooLong},
	"name.required": {"Укажите название тега", CodeRequired},
	"name.safe":     suspicious,
	"name.letters":  {"Название должно содержать только буквы", CodeLettersOnly},
	"name.min":      {"Название должно содержать минимум 2 символа", CodeTooShort},
	"name.max":      {"Название не должно превышать 50 символов", CodeTooLong},
	"sort.gte":      {"Сортировка не может быть отрицательной", CodeOutOfRange},
}

// Catalog implements Form.
func (TagForm) Catalog() Catalog { return tagCatalog }

// Sanitize implements Sanitizer.
func (f *TagForm) Sanitize() {
	f.Name = sanitize.Text(f.Name)
}

// AuthorForm is the create/edit payload for an author.
type AuthorForm struct {
	Name             string         `json:"name" validate:"required,safe,min=2,max=50"`
	LastName         string         `json:"lastName" validate:"required,safe,min=2,max=50"`
	SecondName       string         `json:"secondName" validate:"omitempty,safe,max=50"`
	ShortDescription string         `json:"shortDescription" validate:"omitempty,safe,max=200"`
	Description      string         `json:"description" validate:"omitempty,safe,max=1000"`
	Avatar           *domain.Upload `json:"-"`
	RemoveAvatar     bool           `json:"removeAvatar"`
}

var authorCatalog = Catalog{
	"name.required":         {"Укажите имя", CodeRequired},
	"name.safe":             suspicious,
	"name.min":              {"Имя должно содержать минимум 2 символа", CodeTooShort},
	"name.max":              {"Имя не должно превышать 50 символов", CodeTooLong},
	"lastName.required":     {"Укажите фамилию", CodeRequired},
	"lastName.safe":         suspicious,
	"lastName.min":          {"Фамилия должна содержать минимум 2 символа", CodeTooShort},
	"lastName.max":          {"Фамилия не должна превышать 50 символов", CodeTooLong},
	"secondName.safe":       suspicious,
	"secondName.max":        {"Отчество не должно превышать 50 символов", CodeTooLong},
	"shortDescription.safe": suspicious,
	"shortDescription.max":  {"Краткое описание не должно превышать 200 символов", CodeTooLong},
	"description.safe":      suspicious,
	"description.max":       {"Описание не должно превышать 1000 символов", CodeTooLong},
}

// Catalog implements Form.
func (AuthorForm) Catalog() Catalog { return authorCatalog }

// Sanitize implements Sanitizer.
func (f *AuthorForm) Sanitize() {
	f.Name = sanitize.Text(f.Name)
	f.LastName = sanitize.Text(f.LastName)
	f.SecondName = sanitize.Text(f.SecondName)
	f.ShortDescription = sanitize.Text(f.ShortDescription)
	f.Description = sanitize.Text(f.Description)
}

// LoginForm holds the credentials exchanged for a token pair.
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

var loginCatalog = Catalog{
	"email.required":    {"Укажите email", CodeRequired},
	"email.email":       {"Некорректный email", CodeInvalidEmail},
	"password.required": {"Укажите пароль", CodeRequired},
	"password.min":      {"Пароль должен содержать минимум 8 символов", CodeTooShort},
}

// Catalog implements Form.
func (LoginForm) Catalog() Catalog { return loginCatalog }

// MenuTypeForm is the create/edit payload for a menu type.
type MenuTypeForm struct {
	ID   string `json:"id" validate:"required,safe"`
	Name string `json:"name" validate:"required,safe"`
}

var menuTypeCatalog = Catalog{
	"id.required":   {"Укажите ID типа меню", CodeRequired},
	"id.safe":       suspicious,
	"name.required": {"Укажите название типа меню", CodeRequired},
	"name.safe":     suspicious,
}

// Catalog implements Form.
func (MenuTypeForm) Catalog() Catalog { return menuTypeCatalog }

// Sanitize implements Sanitizer.
func (f *MenuTypeForm) Sanitize() {
	f.ID = sanitize.Text(f.ID)
	f.Name = sanitize.Text(f.Name)
}

// MenuItemForm is the create/edit payload for a menu item.
// ID is empty when creating.
type MenuItemForm struct {
	ID       string  `json:"id"`
	TypeID   string  `json:"typeId" validate:"required,safe"`
	ParentID *string `json:"parentId"`
	Name     string  `json:"name" validate:"required,safe"`
	URL      string  `json:"url" validate:"omitempty,httpurl"`
	Sort     int     `json:"sort" validate:"gte=0"`
}

var menuItemCatalog = Catalog{
	"typeId.required":  {"Укажите тип меню", CodeRequired},
	"typeId.safe":      suspicious,
	"name.required":    {"Укажите название пункта меню", CodeRequired},
	"name.safe":        suspicious,
	"url.httpurl":      {"Некорректный URL", CodeInvalidURL},
	"sort.gte":         {"Порядок сортировки не может быть отрицательным", CodeOutOfRange},
	"parentId.notself": {"Пункт меню не может быть родителем самого себя", CodeInvalidSelection},
}

// Catalog implements Form.
func (MenuItemForm) Catalog() Catalog { return menuItemCatalog }

// Sanitize implements Sanitizer.
func (f *MenuItemForm) Sanitize() {
	f.TypeID = sanitize.Text(f.TypeID)
	f.Name = sanitize.Text(f.Name)
}

func menuItemStructLevel(sl validator.StructLevel) {
	f := sl.Current().Interface().(MenuItemForm)
	if f.ID != "" && f.ParentID != nil && *f.ParentID == f.ID {
		sl.ReportError(f.ParentID, "parentId", "ParentID", "notself", "")
	}
}
