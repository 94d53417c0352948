package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/observable/observable"
)

// Script is a seed for the source list and the operations to run on it.
type Script struct {
	Seed []string    `yaml:"seed"`
	Ops  []Operation `yaml:"ops"`
}

// Operation is one list mutation. Which fields apply depends on Op:
//
//	add        items
//	add_range  items
//	insert     index, items
//	remove     items (first item)
//	remove_at  index, count (default 1)
//	set        index, items (first item)
//	move       from, to
//	clear
type Operation struct {
	Op    string   `yaml:"op"`
	Index int      `yaml:"index"`
	Count int      `yaml:"count"`
	From  int      `yaml:"from"`
	To    int      `yaml:"to"`
	Items []string `yaml:"items"`
}

func (o Operation) String() string {
	switch o.Op {
	case "insert", "set":
		return fmt.Sprintf("%s @%d %v", o.Op, o.Index, o.Items)
	case "remove_at":
		return fmt.Sprintf("%s @%d x%d", o.Op, o.Index, max(o.Count, 1))
	case "move":
		return fmt.Sprintf("%s %d -> %d", o.Op, o.From, o.To)
	case "clear":
		return o.Op
	default:
		return fmt.Sprintf("%s %v", o.Op, o.Items)
	}
}

// Apply runs the operation against list.
func (o Operation) Apply(list *observable.List[string]) error {
	switch o.Op {
	case "add":
		if err := o.needItems(); err != nil {
			return err
		}
		return list.Add(o.Items[0])
	case "add_range":
		return list.AddRange(o.Items...)
	case "insert":
		return list.InsertRange(o.Index, o.Items...)
	case "remove":
		if err := o.needItems(); err != nil {
			return err
		}
		return list.Remove(o.Items[0])
	case "remove_at":
		return list.RemoveRange(o.Index, max(o.Count, 1))
	case "set":
		if err := o.needItems(); err != nil {
			return err
		}
		return list.Set(o.Index, o.Items[0])
	case "move":
		return list.Move(o.From, o.To)
	case "clear":
		return list.Clear()
	default:
		return fmt.Errorf("unknown operation: %q", o.Op)
	}
}

func (o Operation) needItems() error {
	if len(o.Items) == 0 {
		return fmt.Errorf("%s requires items", o.Op)
	}
	return nil
}

func parseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	return &s, nil
}

func loadScript(filename string) (*Script, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return parseScript(data)
}
