package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"globalchat-bot/commands"
	"globalchat-bot/utils"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) Run() {
	err := b.Session.Open()
	if err != nil {
		log.Fatalf("Error opening connection: %v", err)
	}

	log.Println("Registering application commands...")
	cmds := commands.GenerateCommands()
	b.RegisteredCommands = make([]*discordgo.ApplicationCommand, 0, len(cmds))
	registered, err := b.Session.ApplicationCommandBulkOverwrite(b.Session.State.User.ID, "", cmds)
	if err != nil {
		log.Printf("cannot register commands: %v", err)
	} else {
		b.RegisteredCommands = append(b.RegisteredCommands, registered...)
	}

	b.StartMaintenance()

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	if err := utils.LogInfo(b.GetConfig().LogWebhookURL, "System", "Startup", "Bot has started successfully."); err != nil {
		log.Printf("Failed to send startup log: %v", err)
	}
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
}
