// Package validation 课程字段校验：在任何持久化之前运行，无副作用。
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata" // 容器镜像可能不含系统时区库
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zhtranslations "github.com/go-playground/validator/v10/translations/zh"
)

// DefaultTimeZone 默认时区；时区非法时 ID 与名称的校验即以此为占位
const DefaultTimeZone = "UTC"

const (
	CourseIDMaxLength   = 40
	CourseNameMaxLength = 64
)

var (
	courseIDPattern       = regexp.MustCompile(`^[A-Za-z0-9_.$-]+$`)
	sampleCourseIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.$-]+-demo\d*$`)
)

const (
	courseIDTag   = "courseid"
	courseNameTag = "coursename"
)

// courseFields 待校验的课程字段；label 作为错误信息中的字段名
type courseFields struct {
	ID   string `label:"课程ID"   validate:"required,max=40,courseid"`
	Name string `label:"课程名称" validate:"required,max=64,coursename"`
}

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New()

	zhLocale := zh.New()
	uni := ut.New(zhLocale, zhLocale)
	translator, _ = uni.GetTranslator("zh")
	_ = zhtranslations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})

	_ = validate.RegisterValidation(courseIDTag, courseIDValidation)
	_ = validate.RegisterValidation(courseNameTag, courseNameValidation)

	registerTranslation(courseIDTag, "{0}只能包含字母、数字、下划线、点、美元符号和连字符，且必须以字母或数字开头")
	registerTranslation(courseNameTag, "{0}不能为空白，且必须以字母或数字开头")
}

func registerTranslation(tag, text string) {
	_ = validate.RegisterTranslation(tag, translator,
		func(t ut.Translator) error {
			return t.Add(tag, text, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}

func courseIDValidation(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	if !courseIDPattern.MatchString(id) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(id)
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func courseNameValidation(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if strings.TrimSpace(name) == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ValidateCourseFields 校验课程 ID、名称与时区。
//
// 采用完整报告而非快速失败：时区非法时仍以占位时区校验 ID 与名称，
// 最后追加时区错误。校验通过时返回解析后的时区与空列表；
// 存在任何错误时返回 nil 时区与按 ID、名称、时区顺序排列的错误信息。
func ValidateCourseFields(id, name, timeZone string) (*time.Location, []string) {
	loc, tzErr := resolveTimeZone(timeZone)

	msgs := fieldErrors(courseFields{ID: id, Name: name})
	if tzErr != "" {
		msgs = append(msgs, tzErr)
	}
	if len(msgs) > 0 {
		return nil, msgs
	}
	return loc, []string{}
}

func fieldErrors(f courseFields) []string {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(translator))
	}
	return msgs
}

// resolveTimeZone 解析 IANA 时区标识；空串与 Local 均视为非法
func resolveTimeZone(tz string) (*time.Location, string) {
	msg := fmt.Sprintf("%q 不是有效的时区标识，请使用 IANA 时区（如 Asia/Singapore）", tz)

	if strings.TrimSpace(tz) == "" || tz == "Local" {
		return nil, msg
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, msg
	}
	return loc, ""
}

// IsValidTimeZone 时区标识是否可解析
func IsValidTimeZone(tz string) bool {
	_, msg := resolveTimeZone(tz)
	return msg == ""
}

// IsSampleCourseID 是否为演示课程 ID（形如 xxx-demo 或 xxx-demo3）
func IsSampleCourseID(id string) bool {
	return sampleCourseIDPattern.MatchString(id)
}
