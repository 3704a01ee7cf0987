package interp

import "strings"

// Command is a canonical command, resolved once from any of its aliases.
type Command int

const (
	CmdUnknown Command = iota
	CmdForward
	CmdRight
	CmdLeft
	CmdPenColor
	CmdPenWidth
	CmdPenUp
	CmdPenDown
	CmdPrint
	CmdPrintRaw
	CmdClear
	CmdReset
	CmdRepeat
	CmdHelp
)

// commandSpec describes a command's surface spellings and argument count.
type commandSpec struct {
	aliases []string
	arity   int
}

// The first alias is the canonical name.
var commandSpecs = map[Command]commandSpec{
	CmdForward:  {aliases: []string{"forward", "fd", "elore", "előre"}, arity: 1},
	CmdRight:    {aliases: []string{"right", "rt", "jobbra"}, arity: 1},
	CmdLeft:     {aliases: []string{"left", "lt", "balra"}, arity: 1},
	CmdPenColor: {aliases: []string{"pencolor", "color", "tollszin", "tollszín"}, arity: 4},
	CmdPenWidth: {aliases: []string{"penwidth", "width", "tollvastagsag", "tollvastagság"}, arity: 1},
	CmdPenUp:    {aliases: []string{"penup", "pu", "tollfel"}, arity: 0},
	CmdPenDown:  {aliases: []string{"pendown", "pd", "tollle"}, arity: 0},
	CmdPrint:    {aliases: []string{"print", "kiir", "kiír"}, arity: 1},
	CmdPrintRaw: {aliases: []string{"printraw", "kiirnyers", "kiírnyers"}, arity: 1},
	CmdClear:    {aliases: []string{"clear", "cls", "torol", "töröl"}, arity: 0},
	CmdReset:    {aliases: []string{"reset", "alaphelyzet"}, arity: 0},
	CmdRepeat:   {aliases: []string{"repeat", "ismetel", "ismétel"}, arity: 3},
	CmdHelp:     {aliases: []string{"help", "segitseg", "segítség"}, arity: 0},
}

// aliasTable maps every accepted spelling to its command.
var aliasTable = buildAliasTable()

func buildAliasTable() map[string]Command {
	table := make(map[string]Command)
	for cmd, spec := range commandSpecs {
		for _, alias := range spec.aliases {
			table[alias] = cmd
		}
	}
	return table
}

// LookupCommand resolves a command name through the alias table. Matching is
// case-insensitive.
func LookupCommand(name string) Command {
	if cmd, ok := aliasTable[strings.ToLower(name)]; ok {
		return cmd
	}
	return CmdUnknown
}

// String returns the canonical name.
func (c Command) String() string {
	if spec, ok := commandSpecs[c]; ok {
		return spec.aliases[0]
	}
	return "unknown"
}

// Aliases returns every spelling accepted for c, canonical name first.
func (c Command) Aliases() []string {
	return append([]string(nil), commandSpecs[c].aliases...)
}

// Arity returns the number of arguments c takes.
func (c Command) Arity() int {
	return commandSpecs[c].arity
}

// Commands returns every known command in declaration order.
func Commands() []Command {
	cmds := make([]Command, 0, len(commandSpecs))
	for c := CmdForward; c <= CmdHelp; c++ {
		cmds = append(cmds, c)
	}
	return cmds
}
