package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/daydeskapp/daydesk-server/internal/domain"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/daydesk/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	collections := []string{"user:", "task:", "doc:", "event:", "proj:", "ws:", "invite:", "contact:"}
	counts := make(map[string]int)

	statusCounts := make(map[domain.TaskStatus]int)
	docsShown := 0

	err = db.View(func(txn *badger.Txn) error {
		for _, prefix := range collections {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(prefix)
			it := txn.NewIterator(opts)

			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				remainder := strings.TrimPrefix(string(item.Key()), prefix)

				// Skip index and scope keys
				if strings.HasPrefix(remainder, "idx:") || strings.HasPrefix(remainder, "scope:") {
					continue
				}

				counts[prefix]++

				switch prefix {
				case "task:":
					err := item.Value(func(val []byte) error {
						var task domain.Task
						if err := json.Unmarshal(val, &task); err != nil {
							return err
						}
						statusCounts[task.Status]++
						return nil
					})
					if err != nil {
						log.Printf("Error reading task %s: %v", item.Key(), err)
					}
				case "doc:":
					if docsShown < 3 {
						err := item.Value(func(val []byte) error {
							var doc domain.Document
							if err := json.Unmarshal(val, &doc); err != nil {
								return err
							}
							fmt.Printf("Document: %s\n", doc.Title)
							fmt.Printf("  ID: %s\n", doc.ID)
							fmt.Printf("  Type: %s\n", doc.Type)
							fmt.Printf("  Size: %d bytes\n", len(doc.Content))
							fmt.Printf("  Shared with: %d\n", len(doc.SharedWith))
							fmt.Println()
							docsShown++
							return nil
						})
						if err != nil {
							log.Printf("Error reading document %s: %v", item.Key(), err)
						}
					}
				}
			}
			it.Close()
		}
		return nil
	})

	if err != nil {
		log.Fatalf("Error iterating database: %v", err)
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Users: %d\n", counts["user:"])
	fmt.Printf("Tasks: %d\n", counts["task:"])
	for status, n := range statusCounts {
		fmt.Printf("  %s: %d\n", status, n)
	}
	fmt.Printf("Documents: %d\n", counts["doc:"])
	fmt.Printf("Events: %d\n", counts["event:"])
	fmt.Printf("Projects: %d\n", counts["proj:"])
	fmt.Printf("Workspaces: %d\n", counts["ws:"])
	fmt.Printf("Invitations: %d\n", counts["invite:"])
	fmt.Printf("Contact messages: %d\n", counts["contact:"])
}
