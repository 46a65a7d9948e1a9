package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"ai-storefront-be/pkg/assistant"
)

// Terminal chat widget against a running server. Streams replies token by
// token; with -ask it uses the structured assistant and renders product
// cards and suggestion chips.
func main() {
	base := flag.String("base", "http://localhost:3000/api", "API base URL")
	structured := flag.Bool("ask", false, "use the structured assistant instead of streaming")
	flag.Parse()

	userColor := color.New(color.FgGreen, color.Bold)
	botColor := color.New(color.FgCyan)
	chipColor := color.New(color.FgYellow)
	cardColor := color.New(color.FgMagenta)
	errColor := color.New(color.FgRed)

	client := assistant.NewClient(*base)
	session := assistant.NewSession(client)
	defer session.Close()

	// echo only the not-yet-printed suffix of the in-progress reply
	var printed int
	session.OnChange(func(messages []assistant.Message) {
		last := messages[len(messages)-1]
		if last.Role != assistant.RoleAssistant || last.Err {
			return
		}
		if len(last.Content) > printed {
			botColor.Fprint(os.Stdout, last.Content[printed:])
			printed = len(last.Content)
		}
	})

	greetingLine := session.Messages()[0]
	botColor.Println(greetingLine.Content)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		userColor.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "/exit" {
			break
		}
		if input == "/reset" {
			if err := session.Reset(); err == nil {
				botColor.Println(session.Messages()[0].Content)
			}
			continue
		}

		printed = 0
		var err error
		if *structured {
			err = session.SubmitAsk(input)
		} else {
			err = session.SubmitStream(input)
		}

		messages := session.Messages()
		last := messages[len(messages)-1]

		switch {
		case err == assistant.ErrEmptyInput:
			continue
		case last.Err:
			errColor.Println(last.Content)
			continue
		case err != nil:
			errColor.Println(err.Error())
			continue
		}

		if *structured {
			botColor.Println(last.Content)
			for _, p := range last.Products {
				cardColor.Printf("  [%s] %s\n", p.Name, assistant.FormatPrice(p.Price))
			}
			for _, sg := range last.Suggestions {
				chipColor.Printf("  ~ %s\n", sg)
			}
		} else {
			fmt.Println()
		}
	}
}
