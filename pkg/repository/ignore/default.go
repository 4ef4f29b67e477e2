package ignore

// DefaultIgnore seeds a new repository's .kitcatignore. Only common
// build, editor, and OS noise; project-specific rules are the user's.
const DefaultIgnore = `# kitcat ignore file

# Build outputs
dist/
build/
out/
*.exe
*.so
*.dylib

# Editor and IDE state
.vscode/
.idea/
*.swp
*~

# OS files
.DS_Store
Thumbs.db

# Logs and temp files
*.log
*.tmp
.cache/

# Environment files
.env
.env.local

# Test artifacts
coverage/
*.test
*.out
`
