package mcpserver

// QueryLanguageGuide describes the query language accepted by run_query
// and by query fences in vault pages.
const QueryLanguageGuide = `# Perthro Query Language

Queries project pages from the vault into a table or a list. The same
grammar is used in ` + "```" + `query` + "```" + ` fences inside pages and in the
run_query tool.

## Grammar

` + "```" + `
TABLE [WITHOUT ID] field, field, ...
LIST
FROM #tag | FROM "folder/"
WHERE field = value
WHERE field != value
SORT field [ASC|DESC]
` + "```" + `

## Rules

1. **The first word selects the shape.** ` + "`" + `TABLE` + "`" + ` produces headers and
   rows; ` + "`" + `LIST` + "`" + ` produces one linked item per page. ` + "`" + `TABLE WITHOUT ID` + "`" + `
   drops the leading File column.
2. **Fields are frontmatter keys.** ` + "`" + `TABLE name, rank` + "`" + ` reads ` + "`" + `name` + "`" + ` and
   ` + "`" + `rank` + "`" + ` from each page's YAML frontmatter. ` + "`" + `tags` + "`" + ` also resolves to the
   page's tag set. List values render comma-separated.
3. **FROM filters the source.** ` + "`" + `FROM #quest` + "`" + ` matches pages tagged
   ` + "`" + `quest` + "`" + ` (case-insensitive). ` + "`" + `FROM "Moves/"` + "`" + ` matches pages whose vault
   path starts with the quoted prefix. A query without FROM matches nothing.
4. **WHERE narrows by equality.** Only ` + "`" + `=` + "`" + ` and ` + "`" + `!=` + "`" + ` are supported.
   Several WHERE clauses must all hold. Unquoted numbers compare
   numerically. A page missing the field fails ` + "`" + `=` + "`" + ` and passes ` + "`" + `!=` + "`" + `.
5. **SORT orders the result.** Repeat SORT for tie-breakers; later keys
   apply when earlier ones compare equal. ` + "`" + `ASC` + "`" + ` is the default. Values
   sort numerically when both sides are numbers, as strings otherwise.
6. **Typos narrow, they do not break.** A malformed trailing clause is
   dropped; only an empty query or an unknown leading keyword is an error.

## Examples

` + "```" + `
TABLE name, rank FROM #quest WHERE status = active SORT rank DESC
` + "```" + `

` + "```" + `
LIST FROM "Journal/" SORT date DESC
` + "```" + `
`
