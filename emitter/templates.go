package emitter

// The emitted sources are C++, the original target surface of the tool. The
// templates are opaque text; the generator only substitutes the four fixed
// placeholders {{DFA_SWITCH_CASE}}, {{FINAL_STATE_JUDGEMENT}},
// {{ACTION_TABLE_LOGIC}}, and {{GOTO_TABLE_LOGIC}}.

const templateLexerHeader = `#ifndef GENERATED_LEXER_H
#define GENERATED_LEXER_H

#include <string>

struct Token {
    std::string type;
    std::string text;
    int line;
};

class Lexer {
public:
    Lexer(const std::string& source);

    // Returns the next token that is not a SKIP token, or the end marker
    // "#" once the input is exhausted.
    Token nextToken();

    int getLine() const;

private:
    std::string m_source;
    size_t m_pos;
    int m_line;

    char peek() const;
    char advance();
};

#endif // GENERATED_LEXER_H
`

const templateLexerSource = `#include "lexer.h"

namespace {

// Maps an accepting state to its token name. Returns "" for states that do
// not accept.
const char* tokenNameFor(int state) {
{{FINAL_STATE_JUDGEMENT}}
    return "";
}

} // namespace

Lexer::Lexer(const std::string& source)
    : m_source(source), m_pos(0), m_line(1) {}

int Lexer::getLine() const {
    return m_line;
}

char Lexer::peek() const {
    if (m_pos >= m_source.length()) return '\0';
    return m_source[m_pos];
}

char Lexer::advance() {
    if (m_pos >= m_source.length()) return '\0';
    char c = m_source[m_pos];
    m_pos++;
    if (c == '\n') m_line++;
    return c;
}

Token Lexer::nextToken() {
    for (;;) {
        if (m_pos >= m_source.length()) {
            return Token{"#", "", m_line};
        }

        int state = 0;
        size_t startPos = m_pos;
        int startLine = m_line;
        int lastAcceptState = -1;
        size_t lastAcceptPos = m_pos;
        int lastAcceptLine = m_line;

        // Greedy longest match: run the DFA as far as a transition exists,
        // remembering the last accepting prefix.
        for (;;) {
            if (m_pos >= m_source.length()) break;
            char c = peek();
            int nextState = -1;
            switch (state) {
{{DFA_SWITCH_CASE}}
            default:
                break;
            }
            if (nextState == -1) break;
            advance();
            state = nextState;
            if (*tokenNameFor(state) != '\0') {
                lastAcceptState = state;
                lastAcceptPos = m_pos;
                lastAcceptLine = m_line;
            }
        }

        if (lastAcceptState == -1 || lastAcceptPos == startPos) {
            // Dead end before any accepting prefix: emit a one-char ERROR
            // token so the caller always makes progress.
            m_pos = startPos;
            m_line = startLine;
            char bad = advance();
            return Token{"ERROR", std::string(1, bad), startLine};
        }

        // Back up to the longest accepting prefix.
        m_pos = lastAcceptPos;
        m_line = lastAcceptLine;
        std::string type = tokenNameFor(lastAcceptState);
        if (type == "SKIP") {
            continue;
        }
        std::string text = m_source.substr(startPos, lastAcceptPos - startPos);
        return Token{type, text, startLine};
    }
}
`

const templateParserHeader = `#ifndef GENERATED_PARSER_H
#define GENERATED_PARSER_H

#include "lexer.h"
#include <string>
#include <vector>

// SemanticValue is the record semantic actions read and write. The fields
// beyond text/line support intermediate-code generation.
struct SemanticValue {
    std::string text;
    int line = 0;
    std::string code;
    std::string var_;
    std::vector<int> trueList;
    std::vector<int> falseList;
    std::vector<int> nextList;
    int quad = 0;
    int val = 0;
};

class Parser {
public:
    Parser(Lexer& lexer);

    // Runs the shift/reduce loop to acceptance or the first syntax error.
    bool parse();

private:
    Lexer& m_lexer;
    std::vector<int> m_states;
    std::vector<SemanticValue> m_values;
    int m_tempCounter;
    int m_labelCounter;

    std::string newTemp();
    std::string newLabel();
};

#endif // GENERATED_PARSER_H
`

const templateParserSource = `#include "parser.h"

#include <iostream>

namespace {

int gotoState(int state, const std::string& lhs) {
{{GOTO_TABLE_LOGIC}}
    return -1;
}

} // namespace

Parser::Parser(Lexer& lexer)
    : m_lexer(lexer), m_tempCounter(0), m_labelCounter(0) {}

std::string Parser::newTemp() {
    return "t" + std::to_string(m_tempCounter++);
}

std::string Parser::newLabel() {
    return "L" + std::to_string(m_labelCounter++);
}

bool Parser::parse() {
    m_states.clear();
    m_values.clear();
    m_states.push_back(0);
    m_values.push_back(SemanticValue{});
    Token look = m_lexer.nextToken();
    for (;;) {
        int state = m_states.back();
{{ACTION_TABLE_LOGIC}}
        std::cerr << "syntax error at line " << look.line
                  << " near '" << look.text << "'" << std::endl;
        return false;
    }
}
`
