package interp

// HelpText is the reference block logged by help().
const HelpText = `Commands (aliases in brackets):
  forward(d)            [fd, elore]      move d units along the heading
  right(deg)            [rt, jobbra]     turn clockwise
  left(deg)             [lt, balra]      turn counter-clockwise
  pencolor(r,g,b,a)     [color, tollszin] set the pen color, integers 0-255
  penwidth(w)           [width]          set the pen width
  penup()               [pu, tollfel]    stop drawing
  pendown()             [pd, tollle]     start drawing
  print(name)           [kiir]           show a variable's value
  printraw(name)        [kiirnyers]      show a variable's source text
  clear()               [cls, torol]     empty this log
  reset()               [alaphelyzet]    start over with a fresh turtle
  repeat(i,from,to){..} [ismetel]        run the block for i = from .. to-1
  help()                [segitseg]       show this text

Assignment: name = expression
Expressions: numbers, variables, ( ), + - * / and : (integer division), % (remainder)
Separate statements with ';'.`
