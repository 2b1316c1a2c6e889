// Command gen_transcripts writes a synthetic transcript directory and
// contacts file for exercising the export pipeline by hand.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var userLines = []string{
	"hey are we still on for tonight",
	"running late, be there in 20",
	"lol that was great",
	"gonna grab food first, want anything?",
	"sounds good, see you there!",
	"ok cool",
	"did you see the game last night??",
	"happy birthday!! 🎉",
}

var contactLines = []string{
	"yes! see you at seven",
	"no worries, take your time",
	"haha right?",
	"I'm good thanks",
	"can't wait",
	"Loved \"sounds good, see you there!\"",
	"what a finish",
	"thank you!!",
}

var names = []string{"Jane Smith", "Bob Jones", "Maria Garcia", "Wei Chen"}

func main() {
	out := flag.String("out", "testdata_gen", "output directory")
	contacts := flag.Int("contacts", 3, "number of contacts to generate")
	messages := flag.Int("messages", 40, "messages per contact")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	if err := run(*out, *contacts, *messages, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(out string, contacts, messages int, seed int64) error {
	if contacts > len(names) {
		contacts = len(names)
	}
	if err := os.MkdirAll(out, 0755); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(seed))
	var contactsYAML strings.Builder
	contactsYAML.WriteString("contacts:\n")

	for i := 0; i < contacts; i++ {
		number := fmt.Sprintf("+1555%07d", 1000000+i)
		name := names[i]

		var b strings.Builder
		ts := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
		for m := 0; m < messages; m++ {
			b.WriteString(ts.Format("Jan 2, 2006 3:04:05 PM"))
			b.WriteString("\n")
			if m%2 == 0 {
				b.WriteString("Me\n")
				b.WriteString(userLines[rng.Intn(len(userLines))])
			} else {
				b.WriteString(number + "\n")
				b.WriteString(contactLines[rng.Intn(len(contactLines))])
			}
			b.WriteString("\n\n")
			ts = ts.Add(time.Duration(1+rng.Intn(240)) * time.Minute)
		}

		if err := os.WriteFile(filepath.Join(out, number+".txt"), []byte(b.String()), 0644); err != nil {
			return err
		}

		fmt.Fprintf(&contactsYAML, "  - name: %s\n    phone_numbers:\n      - \"%s\"\n", name, number)
	}

	contactsPath := filepath.Join(out, "contacts.yaml")
	if err := os.WriteFile(contactsPath, []byte(contactsYAML.String()), 0644); err != nil {
		return err
	}

	fmt.Printf("Wrote %d transcripts and %s\n", contacts, contactsPath)
	return nil
}
