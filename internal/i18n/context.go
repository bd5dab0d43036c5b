package i18n

import "context"

type ctxKey string

const (
	langKey       ctxKey = "lang"
	viewLocaleKey ctxKey = "article_view_locale"
)

// WithLang stores the resolved UI language in the context.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey, lang)
}

// Lang returns the UI language from the context, or the default locale.
func Lang(ctx context.Context) string {
	if v, ok := ctx.Value(langKey).(string); ok && v != "" {
		return v
	}
	return DefaultLocale
}

// WithViewLocale stores the article view-locale in the context.
func WithViewLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, viewLocaleKey, locale)
}

// ViewLocale returns the article view-locale from the context.
// When no override is set it falls back to the UI language.
func ViewLocale(ctx context.Context) string {
	if v, ok := ctx.Value(viewLocaleKey).(string); ok && v != "" {
		return v
	}
	return Lang(ctx)
}
