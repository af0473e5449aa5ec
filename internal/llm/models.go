package llm

import "github.com/projectziio/ziio-ai/internal/config"

// Models names the gateway model used for each feature and its backup.
type Models struct {
	Vision       string // page image analysis
	FileAnalysis string // backup for Vision, multi-page synthesis
	TextBackup   string

	Chat       string
	ChatBackup string

	Proofread       string
	ProofreadBackup string

	Article       string
	ArticleBackup string
}

func DefaultModels() Models {
	return Models{
		Vision:          "meta-llama/llama-3.2-90b-vision-instruct:free",
		FileAnalysis:    "meta-llama/llama-3.1-405b-instruct:free",
		TextBackup:      "meta-llama/llama-3.1-70b-instruct:free",
		Chat:            "openchat/openchat-7b:free",
		ChatBackup:      "mistralai/mistral-7b-instruct:free",
		Proofread:       "meta-llama/llama-3.2-3b-instruct:free",
		ProofreadBackup: "mistralai/mistral-7b-instruct:free",
		Article:         "meta-llama/llama-3.1-70b-instruct:free",
		ArticleBackup:   "mistralai/mistral-7b-instruct:free",
	}
}

// ModelsFromConfig fills the catalog from configuration; blank entries keep the default.
func ModelsFromConfig(c config.LLMConfig) Models {
	m := DefaultModels()
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&m.Vision, c.Vision)
	set(&m.FileAnalysis, c.FileAnalysis)
	set(&m.TextBackup, c.TextBackup)
	set(&m.Chat, c.Chat)
	set(&m.ChatBackup, c.ChatBackup)
	set(&m.Proofread, c.Proofread)
	set(&m.ProofreadBackup, c.ProofreadBackup)
	set(&m.Article, c.Article)
	set(&m.ArticleBackup, c.ArticleBackup)
	return m
}

// ConfigFrom maps application configuration to client configuration.
func ConfigFrom(c config.LLMConfig) Config {
	return Config{
		APIKey:   c.APIKey,
		BaseURL:  c.BaseURL,
		AppURL:   c.AppURL,
		AppTitle: c.AppTitle,
		Timeout:  c.Timeout,
	}
}
