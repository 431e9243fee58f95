package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/gennadis/buddychat/internal/chat"
	"github.com/gennadis/buddychat/internal/client"
	"github.com/gennadis/buddychat/internal/config"
	"github.com/gennadis/buddychat/internal/conversation"
	"github.com/gennadis/buddychat/internal/onboarding"
	"github.com/gennadis/buddychat/storage"

	"github.com/joho/godotenv"
)

var moodEmoji = map[chat.Mood]string{
	chat.MoodHappy:    "😊",
	chat.MoodExcited:  "🤩",
	chat.MoodConfused: "🤔",
	chat.MoodThinking: "🤨",
	chat.MoodSad:      "😢",
}

func main() {
	ctx := context.Background()
	godotenv.Load(".env")

	cfg := config.NewConfig()

	db, err := storage.NewSqliteDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer db.Close()

	profiles, err := storage.NewProfiles(db)
	if err != nil {
		log.Fatalf("Failed to init profile storage: %s", err)
	}
	sessions, err := storage.NewSessions(db)
	if err != nil {
		log.Fatalf("Failed to init session storage: %s", err)
	}
	themes, err := storage.NewThemes(db)
	if err != nil {
		log.Fatalf("Failed to init theme storage: %s", err)
	}

	agentClient := client.NewClient(*cfg)
	controller := conversation.NewController(profiles, sessions, agentClient)

	if err := controller.Rehydrate(ctx); err != nil {
		log.Fatalf("Failed to restore state: %s", err)
	}

	reader := bufio.NewReader(os.Stdin)

	if controller.State() == conversation.StateOnboarding {
		profile := runOnboarding(reader)
		fmt.Println("Buddy is getting ready...")
		greeting := controller.StartFromOnboarding(ctx, profile)
		printMessage(greeting)
	} else {
		for _, msg := range controller.Messages() {
			printMessage(msg)
		}
	}

	fmt.Println("Commands: /suggest /profile /theme /end /quit")
	runChatLoop(ctx, reader, controller, themes)
}

func runChatLoop(ctx context.Context, reader *bufio.Reader, controller *conversation.Controller, themes *storage.Themes) {
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\n")

		switch strings.TrimSpace(line) {
		case "/quit":
			return
		case "/suggest":
			fmt.Printf("How about: %s\n", controller.SuggestPrompt())
		case "/theme":
			toggleTheme(themes)
		case "/end":
			printMessage(controller.EndSession())
		case "/profile":
			updated, ok := runSettings(reader, controller)
			if !ok {
				fmt.Println("Profile editing is only available during a conversation.")
				continue
			}
			printMessage(updated)
		default:
			fmt.Println("Buddy is thinking...")
			reply, ok := controller.SendUserMessage(ctx, line)
			if !ok {
				continue
			}
			printMessage(reply)
		}
	}
}

// runOnboarding walks the four wizard steps, re-asking on guard failures.
func runOnboarding(reader *bufio.Reader) chat.Profile {
	fmt.Println("Welcome to Buddy! Let's start by getting to know each other.")
	flow := onboarding.NewFlow()
	for {
		fmt.Printf("%s\n> ", flow.Step().Prompt())
		line, err := reader.ReadString('\n')
		if err != nil {
			os.Exit(0)
		}
		profile, done, err := flow.Answer(strings.TrimRight(line, "\n"))
		if err != nil {
			fmt.Println(err)
			continue
		}
		if done {
			return profile
		}
	}
}

// runSettings edits the profile field by field; empty input keeps the
// current value.
func runSettings(reader *bufio.Reader, controller *conversation.Controller) (chat.Message, bool) {
	current := controller.Profile()
	fields := []struct {
		label string
		value *string
	}{
		{"Your name", &current.Name},
		{"Your interests", &current.Hobbies},
		{"Your favorites", &current.Favorites},
		{"Additional info", &current.AdditionalInfo},
	}

	for _, f := range fields {
		fmt.Printf("%s [%s]: ", f.label, *f.value)
		line, err := reader.ReadString('\n')
		if err != nil {
			return chat.Message{}, false
		}
		if line = strings.TrimRight(line, "\n"); strings.TrimSpace(line) != "" {
			*f.value = line
		}
	}

	return controller.UpdateProfile(current)
}

func toggleTheme(themes *storage.Themes) {
	next := storage.ThemeDark
	if themes.Load() == storage.ThemeDark {
		next = storage.ThemeLight
	}
	if err := themes.Save(next); err != nil {
		slog.Error("Failed to save theme preference", "error", err)
		return
	}
	fmt.Printf("Theme set to %s.\n", next)
}

func printMessage(msg chat.Message) {
	stamp := msg.Timestamp.Format("15:04")
	if msg.Sender == chat.SenderUser {
		fmt.Printf("[%s] You: %s\n", stamp, msg.Text)
		return
	}
	fmt.Printf("[%s] Buddy %s: %s\n", stamp, moodEmoji[msg.Mood], msg.Text)
}
