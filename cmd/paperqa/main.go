// Package main is the entry point for the PaperQA service.
//
//	@title						PaperQA API
//	@version					1.0
//	@description				Retrieval-augmented question answering over uploaded research papers, backed by Milvus and Ollama.
//	@termsOfService				https://github.com/paperqa-io/paperqa
//
//	@contact.name				PaperQA Team
//	@contact.url				https://github.com/paperqa-io/paperqa
//	@contact.email				support@paperqa.io
//
//	@license.name				Apache 2.0
//	@license.url				http://www.apache.org/licenses/LICENSE-2.0.html
//
//	@host						localhost:8080
//	@BasePath					/
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/paperqa-io/paperqa/internal/paperqa"
)

func main() {
	paperqa.NewApp().Run()
}
