package mcpserver

// NoteSyntax describes the inline syntax recognised in note bodies,
// for LLM consumers that create or update notes.
const NoteSyntax = `# flux-notes Body Syntax

Note bodies are plain text. Three inline forms carry meaning.

## Tags

` + "```" + `
Met @alice about #project-x planning.
` + "```" + `

- ` + "`" + `#word` + "`" + ` and ` + "`" + `@word` + "`" + ` both become tags on the note.
- Tags are stored lowercase; ` + "`" + `#Project` + "`" + ` and ` + "`" + `#project` + "`" + ` are the same tag.
- A tag token is letters, digits, and underscores. Punctuation ends it.
- Tags are re-extracted from the body on every save; removing the token
  from the text removes the tag from the note.

## Wiki links

` + "```" + `
See [[Weekly Standup]] for the decision.
` + "```" + `

- ` + "`" + `[[Title]]` + "`" + ` references another note by its exact title
  (case-insensitive).
- When the note is saved, each reference that matches an existing note
  title creates a ` + "`" + `references` + "`" + ` link in the graph.
- References to titles that do not exist yet are kept in the text and
  simply produce no link; they resolve on a later save once the target
  note exists.

## Rules

1. There is no frontmatter. The title is a separate field, not part of
   the body.
2. Tags and wiki links may appear anywhere in the body.
3. Encoding is UTF-8.
`
